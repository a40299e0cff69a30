package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamcal/teamcal-api/internal/models"
)

// TeamRepository provides lookups against the team directory.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository creates a new instance of TeamRepository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetByID returns a team by identifier.
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	const query = `SELECT id, name, created_at FROM teams WHERE id = $1 LIMIT 1`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find team by id: %w", err)
	}
	return &team, nil
}

// FindByName returns a team by its unique name.
func (r *TeamRepository) FindByName(ctx context.Context, name string) (*models.Team, error) {
	const query = `SELECT id, name, created_at FROM teams WHERE name = $1 LIMIT 1`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find team by name: %w", err)
	}
	return &team, nil
}

// List returns all teams ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]models.Team, error) {
	const query = `SELECT id, name, created_at FROM teams ORDER BY name ASC`
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// Create inserts a new team.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teams (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}
