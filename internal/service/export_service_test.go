package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamcal/teamcal-api/internal/dto"
	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

type stubProjector struct {
	resp *dto.CalendarResponse
	err  error
}

func (s *stubProjector) Calendar(ctx context.Context, requester *models.JWTClaims) (*dto.CalendarResponse, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return s.resp, false, nil
}

func exportFixture() *dto.CalendarResponse {
	return &dto.CalendarResponse{Events: []dto.ProjectedEvent{
		{ID: "e1", Title: "Standup", Type: "meeting", Start: "2024-03-04T09:00:00Z", End: "2024-03-04T09:15:00Z", Status: "approved", Scope: "personal", CreatorUsername: "alice", TeamName: "Engineering"},
		{ID: "e2", Title: "Holiday", Type: "vacation", Start: "2024-03-01", End: "2024-03-02", Status: "pending", Scope: "personal", CreatorUsername: "bob", TeamName: models.NoTeamName},
	}}
}

func TestExportCSV(t *testing.T) {
	svc := NewExportService(&stubProjector{resp: exportFixture()}, 0)

	result, err := svc.Export(context.Background(), claimsFor("alice", models.RoleUser, nil), ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "calendar-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Content)
	assert.Contains(t, body, "Title,Type,Start,End,Status,Scope,Creator,Team")
	assert.Contains(t, body, "Standup")
	assert.Contains(t, body, "Holiday")
}

func TestExportPDF(t *testing.T) {
	svc := NewExportService(&stubProjector{resp: exportFixture()}, 0)

	result, err := svc.Export(context.Background(), claimsFor("alice", models.RoleUser, nil), ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.NotEmpty(t, result.Content)
}

func TestExportTruncatesAtMaxRows(t *testing.T) {
	svc := NewExportService(&stubProjector{resp: exportFixture()}, 1)

	result, err := svc.Export(context.Background(), claimsFor("alice", models.RoleUser, nil), ExportCSV)
	require.NoError(t, err)

	body := string(result.Content)
	assert.Contains(t, body, "Standup")
	assert.NotContains(t, body, "Holiday")
}

func TestExportUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubProjector{resp: exportFixture()}, 0)

	_, err := svc.Export(context.Background(), claimsFor("alice", models.RoleUser, nil), ExportFormat("xlsx"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
