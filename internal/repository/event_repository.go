package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

// EventRepository provides database access for calendar events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.id, e.title, e.type, e.status, e.start_at, e.end_at, e.creator_id, e.scope, e.team_id, e.created_at`

// Insert appends one event record and fills in generated fields.
func (r *EventRepository) Insert(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO events (id, title, type, status, start_at, end_at, creator_id, scope, team_id, created_at) VALUES (:id, :title, :type, :status, :start_at, :end_at, :creator_id, :scope, :team_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event with display fields joined in.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s, u.username AS creator_username, t.name AS team_name FROM events e JOIN users u ON u.id = e.creator_id LEFT JOIN teams t ON t.id = e.team_id WHERE e.id = $1 LIMIT 1`, eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "event failed integrity checks")
	}
	return &event, nil
}

// ListAll returns every stored event in storage order with creator and
// team display fields joined in. Visibility filtering happens in the
// calendar service against this point-in-time snapshot.
func (r *EventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s, u.username AS creator_username, t.name AS team_name FROM events e JOIN users u ON u.id = e.creator_id LEFT JOIN teams t ON t.id = e.team_id ORDER BY e.created_at ASC`, eventColumns)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "event failed integrity checks")
		}
	}
	return events, nil
}

// ListPendingVacations returns vacation requests awaiting a decision.
func (r *EventRepository) ListPendingVacations(ctx context.Context) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s, u.username AS creator_username, t.name AS team_name FROM events e JOIN users u ON u.id = e.creator_id LEFT JOIN teams t ON t.id = e.team_id WHERE e.type = $1 AND e.status = $2 ORDER BY e.created_at ASC`, eventColumns)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, models.EventTypeVacation, models.StatusPending); err != nil {
		return nil, fmt.Errorf("list pending vacations: %w", err)
	}
	return events, nil
}

// UpdateStatus sets the status of an event and returns the updated row.
// The write is committed before return; concurrent decisions race with
// last-write-wins semantics.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, status models.EventStatus) (*models.Event, error) {
	const query = `UPDATE events SET status = $2 WHERE id = $1 RETURNING id, title, type, status, start_at, end_at, creator_id, scope, team_id, created_at`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	return &event, nil
}
