package dto

import "time"

// CreateEventRequest is the submit-event payload.
type CreateEventRequest struct {
	Title   string    `json:"title" validate:"required,max=100"`
	Type    string    `json:"type" validate:"required,max=20"`
	Scope   string    `json:"scope" validate:"required,oneof=personal team"`
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
}

// DecisionResponse reports the outcome of an approve/reject action.
type DecisionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateUserRequest provisions a local user account.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,max=80"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=user admin"`
	TeamID   *string `json:"team_id,omitempty"`
}
