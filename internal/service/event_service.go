package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teamcal/teamcal-api/internal/dto"
	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

type eventRepository interface {
	Insert(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) (*models.Event, error)
}

type eventUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type eventCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EventService owns the approval workflow: event submission with the
// initial-status rule and admin-gated approve/reject decisions.
type EventService struct {
	repo      eventRepository
	users     eventUserRepository
	cache     eventCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the service. cache may be nil.
func NewEventService(repo eventRepository, users eventUserRepository, cache eventCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, users: users, cache: cache, validator: validate, logger: logger}
}

// Submit appends one event for the requesting user. Vacations from
// non-admins start pending; everything else starts approved. Team scope
// snapshots the creator's current team; a creator without a team has the
// submission downgraded to personal scope so team_id stays consistent
// with the scope.
func (s *EventService) Submit(ctx context.Context, requester *models.JWTClaims, req dto.CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndAt.Before(req.StartAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must not precede start")
	}

	creator, err := s.users.FindByID(ctx, requester.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load creator")
	}

	scope, err := models.ParseEventScope(req.Scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scope")
	}

	var teamID *string
	if scope == models.ScopeTeam {
		if creator.TeamID == nil {
			s.logger.Info("team-scope submission from user without a team, downgrading to personal",
				zap.String("user_id", creator.ID))
			scope = models.ScopePersonal
		} else {
			teamID = creator.TeamID
		}
	}

	event := &models.Event{
		Title:     req.Title,
		Type:      models.EventType(req.Type),
		Status:    models.InitialStatus(models.EventType(req.Type), creator.Role),
		StartAt:   req.StartAt.UTC(),
		EndAt:     req.EndAt.UTC(),
		CreatorID: creator.ID,
		Scope:     scope,
		TeamID:    teamID,
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store event")
	}

	s.invalidateCalendars(ctx)

	return event, nil
}

// Decide applies an admin verdict to an event. Non-admins are rejected
// before any effect; unknown ids surface as not found. The status is set
// unconditionally: re-deciding an already decided event succeeds, with
// last write winning.
func (s *EventService) Decide(ctx context.Context, requester *models.JWTClaims, eventID string, verdict models.Verdict) (*models.Event, error) {
	if !requester.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}

	status, err := verdict.Status()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verdict")
	}

	event, err := s.repo.UpdateStatus(ctx, eventID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event status")
	}

	payload, _ := json.Marshal(map[string]string{"status": string(status)})
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &requester.UserID,
		Action:     models.AuditActionDecision,
		Resource:   "event",
		ResourceID: &event.ID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record decision audit log", zap.Error(err))
	}

	s.invalidateCalendars(ctx)

	return event, nil
}

func (s *EventService) invalidateCalendars(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "calendar:user:*"); err != nil {
		s.logger.Warn("failed to invalidate calendar cache", zap.Error(err))
	}
}
