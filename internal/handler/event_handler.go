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

type eventService interface {
	Submit(ctx context.Context, requester *models.JWTClaims, req dto.CreateEventRequest) (*models.Event, error)
	Decide(ctx context.Context, requester *models.JWTClaims, eventID string, verdict models.Verdict) (*models.Event, error)
}

type decisionRecorder interface {
	RecordDecision(verdict string)
}

// EventHandler exposes event submission and approval decisions.
type EventHandler struct {
	service eventService
	metrics decisionRecorder
}

// NewEventHandler constructs the handler. metrics may be nil.
func NewEventHandler(service eventService, metrics decisionRecorder) *EventHandler {
	return &EventHandler{service: service, metrics: metrics}
}

// Create godoc
// @Summary Submit an event
// @Description Create a meeting, vacation request, or other event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event)
}

// Approve godoc
// @Summary Approve an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/approve [post]
func (h *EventHandler) Approve(c *gin.Context) {
	h.decide(c, models.VerdictApprove)
}

// Reject godoc
// @Summary Reject an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/reject [post]
func (h *EventHandler) Reject(c *gin.Context) {
	h.decide(c, models.VerdictReject)
}

func (h *EventHandler) decide(c *gin.Context, verdict models.Verdict) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	event, err := h.service.Decide(c.Request.Context(), claims, c.Param("id"), verdict)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordDecision(string(verdict))
	}

	response.JSON(c, http.StatusOK, dto.DecisionResponse{ID: event.ID, Status: string(event.Status)}, nil)
}
