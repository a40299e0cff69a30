package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

var eventListColumns = []string{
	"id", "title", "type", "status", "start_at", "end_at", "creator_id",
	"scope", "team_id", "created_at", "creator_username", "team_name",
}

func eventRow(rows *sqlmock.Rows, id, title string, eventType models.EventType, status models.EventStatus, scope models.EventScope) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, title, string(eventType), string(status), now, now, "u1", string(scope), nil, now, "alice", nil)
}

func TestInsertEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{
		Title:     "Sprint planning",
		Type:      models.EventTypeMeeting,
		Status:    models.StatusApproved,
		StartAt:   time.Now(),
		EndAt:     time.Now().Add(time.Hour),
		CreatorID: "u1",
		Scope:     models.ScopePersonal,
	}
	err := repo.Insert(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows(eventListColumns)
	eventRow(rows, "e1", "Standup", models.EventTypeMeeting, models.StatusApproved, models.ScopePersonal)
	eventRow(rows, "e2", "Holiday", models.EventTypeVacation, models.StatusPending, models.ScopePersonal)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events e JOIN users u ON u.id = e.creator_id LEFT JOIN teams t ON t.id = e.team_id ORDER BY e.created_at ASC")).
		WillReturnRows(rows)

	events, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "alice", events[0].CreatorUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllRejectsUnknownStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows(eventListColumns)
	eventRow(rows, "e1", "Standup", models.EventTypeMeeting, models.EventStatus("archived"), models.ScopePersonal)

	mock.ExpectQuery("FROM events e").WillReturnRows(rows)

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrDataIntegrity.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingVacations(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows(eventListColumns)
	eventRow(rows, "e2", "Holiday", models.EventTypeVacation, models.StatusPending, models.ScopePersonal)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.type = $1 AND e.status = $2 ORDER BY e.created_at ASC")).
		WithArgs(models.EventTypeVacation, models.StatusPending).
		WillReturnRows(rows)

	events, err := repo.ListPendingVacations(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusPending, events[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "type", "status", "start_at", "end_at", "creator_id", "scope", "team_id", "created_at"}).
		AddRow("e2", "Holiday", string(models.EventTypeVacation), string(models.StatusApproved), now, now, "u1", string(models.ScopePersonal), nil, now)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE events SET status = $2 WHERE id = $1 RETURNING")).
		WithArgs("e2", models.StatusApproved).
		WillReturnRows(rows)

	event, err := repo.UpdateStatus(context.Background(), "e2", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, event.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE events SET status = $2 WHERE id = $1 RETURNING")).
		WithArgs("missing", models.StatusRejected).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), "missing", models.StatusRejected)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
