package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamcal/teamcal-api/internal/dto"
	"github.com/teamcal/teamcal-api/internal/models"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
	"github.com/teamcal/teamcal-api/pkg/response"
)

type calendarService interface {
	Calendar(ctx context.Context, requester *models.JWTClaims) (*dto.CalendarResponse, bool, error)
	PendingVacations(ctx context.Context, requester *models.JWTClaims) ([]models.Event, error)
}

type cacheLookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// CalendarHandler exposes the projected calendar endpoints.
type CalendarHandler struct {
	service calendarService
	metrics cacheLookupRecorder
}

// NewCalendarHandler constructs the handler. metrics may be nil.
func NewCalendarHandler(service calendarService, metrics cacheLookupRecorder) *CalendarHandler {
	return &CalendarHandler{service: service, metrics: metrics}
}

// List godoc
// @Summary Projected calendar for the caller
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	resp, cacheHit, err := h.service.Calendar(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordCacheLookup(cacheHit)
	}

	response.JSON(c, http.StatusOK, resp, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// Pending godoc
// @Summary Pending vacation requests
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events/pending [get]
func (h *CalendarHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	events, err := h.service.PendingVacations(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, events, nil)
}
