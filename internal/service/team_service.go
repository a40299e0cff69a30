package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

type teamRepository interface {
	GetByID(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
}

// TeamService exposes the team directory for display lookups.
type TeamService struct {
	repo teamRepository
}

// NewTeamService constructs the service.
func NewTeamService(repo teamRepository) *TeamService {
	return &TeamService{repo: repo}
}

// List returns all teams.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teams")
	}
	return teams, nil
}

// Get returns a team by id.
func (s *TeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}
	return team, nil
}
