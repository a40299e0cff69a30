package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamcal/teamcal-api/internal/dto"
	"github.com/teamcal/teamcal-api/internal/middleware"
	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

type calendarServiceMock struct {
	resp       *dto.CalendarResponse
	cacheHit   bool
	err        error
	pending    []models.Event
	pendingErr error
}

func (m *calendarServiceMock) Calendar(ctx context.Context, requester *models.JWTClaims) (*dto.CalendarResponse, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return m.resp, m.cacheHit, nil
}

func (m *calendarServiceMock) PendingVacations(ctx context.Context, requester *models.JWTClaims) ([]models.Event, error) {
	if m.pendingErr != nil {
		return nil, m.pendingErr
	}
	return m.pending, nil
}

type cacheRecorderMock struct {
	hits   int
	misses int
}

func (m *cacheRecorderMock) RecordCacheLookup(hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func TestCalendarHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &calendarServiceMock{
		resp: &dto.CalendarResponse{Events: []dto.ProjectedEvent{
			{ID: "e1", Title: "Standup", Color: "#10b981"},
		}},
		cacheHit: true,
	}
	recorder := &cacheRecorderMock{}
	handler := NewCalendarHandler(mockSvc, recorder)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, userClaims("alice", models.RoleUser))

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, recorder.hits)

	var envelope struct {
		Data dto.CalendarResponse   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Events, 1)
	assert.Equal(t, "#10b981", envelope.Data.Events[0].Color)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestCalendarHandlerListUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(&calendarServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/calendar", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCalendarHandlerPending(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &calendarServiceMock{
		pending: []models.Event{{ID: "e2", Status: models.StatusPending}},
	}
	handler := NewCalendarHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/events/pending", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, userClaims("admin", models.RoleAdmin))

	handler.Pending(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCalendarHandlerPendingForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &calendarServiceMock{pendingErr: appErrors.ErrForbidden}
	handler := NewCalendarHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/events/pending", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, userClaims("alice", models.RoleUser))

	handler.Pending(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}
