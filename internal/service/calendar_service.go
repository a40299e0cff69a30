package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teamcal/teamcal-api/internal/dto"
	"github.com/teamcal/teamcal-api/internal/models"
	"github.com/teamcal/teamcal-api/internal/repository"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

type calendarEventRepository interface {
	ListAll(ctx context.Context) ([]models.Event, error)
	ListPendingVacations(ctx context.Context) ([]models.Event, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CalendarService computes which events a user may see and how they
// render. Filtering and projection are pure over a point-in-time read
// snapshot; nothing here mutates state.
type CalendarService struct {
	repo     calendarEventRepository
	cache    calendarCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCalendarService constructs the service. cache may be nil.
func NewCalendarService(repo calendarEventRepository, cache calendarCache, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// VisibleEvents filters the full event collection down to what the
// requester may see:
//   - admins see every event, all statuses;
//   - everyone else sees their own events (any status or scope) plus
//     approved team-scope events of their own team.
//
// Personal events of other users are never visible to a non-admin, and
// undecided or rejected team events stay hidden from teammates. Order
// follows the input; no sort is imposed.
func VisibleEvents(requester *models.JWTClaims, events []models.Event) []models.Event {
	if requester.IsAdmin() {
		return events
	}

	visible := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.CreatorID == requester.UserID {
			visible = append(visible, e)
			continue
		}
		if e.Scope == models.ScopeTeam &&
			e.TeamID != nil && requester.TeamID != nil && *e.TeamID == *requester.TeamID &&
			e.Status == models.StatusApproved {
			visible = append(visible, e)
		}
	}
	return visible
}

// ProjectEvent maps one event to its presentation shape. Vacations are
// all-day entries rendered with date-only bounds and an exclusive end
// (one day past the stored end, so a single-day vacation occupies that
// day on the calendar grid); timed events keep their stored instants.
func ProjectEvent(e models.Event) (dto.ProjectedEvent, error) {
	color, err := models.StatusColor(e.Status)
	if err != nil {
		return dto.ProjectedEvent{}, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "event has unrecognized status")
	}

	var start, end string
	if e.AllDay() {
		start = e.StartAt.Format("2006-01-02")
		end = e.EndAt.AddDate(0, 0, 1).Format("2006-01-02")
	} else {
		start = e.StartAt.Format(time.RFC3339)
		end = e.EndAt.Format(time.RFC3339)
	}

	teamName := models.NoTeamName
	if e.TeamName != nil && *e.TeamName != "" {
		teamName = *e.TeamName
	}

	return dto.ProjectedEvent{
		ID:              e.ID,
		Title:           e.Title,
		Type:            string(e.Type),
		Start:           start,
		End:             end,
		AllDay:          e.AllDay(),
		Color:           color,
		Status:          string(e.Status),
		Scope:           string(e.Scope),
		CreatorUsername: e.CreatorUsername,
		TeamName:        teamName,
	}, nil
}

// Calendar returns the projected calendar for the requesting user. The
// projection is cached per user; the second return value reports a
// cache hit.
func (s *CalendarService) Calendar(ctx context.Context, requester *models.JWTClaims) (*dto.CalendarResponse, bool, error) {
	key := repository.CalendarKey(requester.UserID)
	if s.cache != nil {
		var cached dto.CalendarResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, true, nil
		}
	}

	events, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, false, appErrors.FromError(err)
	}

	visible := VisibleEvents(requester, events)
	projected := make([]dto.ProjectedEvent, 0, len(visible))
	for _, e := range visible {
		p, err := ProjectEvent(e)
		if err != nil {
			return nil, false, err
		}
		projected = append(projected, p)
	}

	resp := &dto.CalendarResponse{Events: projected}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache calendar projection", zap.Error(err))
		}
	}
	return resp, false, nil
}

// PendingVacations lists vacation requests awaiting a decision. Admin only.
func (s *CalendarService) PendingVacations(ctx context.Context, requester *models.JWTClaims) ([]models.Event, error) {
	if !requester.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	events, err := s.repo.ListPendingVacations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending vacations")
	}
	return events, nil
}
