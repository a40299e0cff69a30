package models

import (
	"fmt"
	"time"
)

// EventType is an open set; vacation is the only type with special
// lifecycle and rendering behavior.
type EventType string

const (
	EventTypeMeeting  EventType = "meeting"
	EventTypeVacation EventType = "vacation"
)

// EventScope is the visibility class of an event.
type EventScope string

const (
	ScopePersonal EventScope = "personal"
	ScopeTeam     EventScope = "team"
)

// ParseEventScope validates a stored scope value.
func ParseEventScope(raw string) (EventScope, error) {
	switch EventScope(raw) {
	case ScopePersonal, ScopeTeam:
		return EventScope(raw), nil
	default:
		return "", fmt.Errorf("unrecognized event scope %q", raw)
	}
}

// EventStatus is the approval lifecycle state.
type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

// ParseEventStatus validates a stored status value.
func ParseEventStatus(raw string) (EventStatus, error) {
	switch EventStatus(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return EventStatus(raw), nil
	default:
		return "", fmt.Errorf("unrecognized event status %q", raw)
	}
}

// StatusColor maps an approval state to its presentation color token.
// An unrecognized status is a data-integrity failure, never a default.
func StatusColor(status EventStatus) (string, error) {
	switch status {
	case StatusPending:
		return "#facc15", nil
	case StatusApproved:
		return "#10b981", nil
	case StatusRejected:
		return "#ef4444", nil
	default:
		return "", fmt.Errorf("no color for event status %q", status)
	}
}

// Event is a calendar entry. Only Status mutates after creation; the
// creator is immutable and events are never edited or deleted.
type Event struct {
	ID        string      `db:"id" json:"id"`
	Title     string      `db:"title" json:"title"`
	Type      EventType   `db:"type" json:"type"`
	Status    EventStatus `db:"status" json:"status"`
	StartAt   time.Time   `db:"start_at" json:"start_at"`
	EndAt     time.Time   `db:"end_at" json:"end_at"`
	CreatorID string      `db:"creator_id" json:"creator_id"`
	Scope     EventScope  `db:"scope" json:"scope"`
	TeamID    *string     `db:"team_id" json:"team_id,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`

	// Joined display fields, populated by list queries, never stored.
	CreatorUsername string  `db:"creator_username" json:"creator_username,omitempty"`
	TeamName        *string `db:"team_name" json:"team_name,omitempty"`
}

// AllDay reports whether the event renders as an all-day entry.
func (e *Event) AllDay() bool {
	return e.Type == EventTypeVacation
}

// Validate checks the enum-valued fields scanned from the store.
func (e *Event) Validate() error {
	if _, err := ParseEventStatus(string(e.Status)); err != nil {
		return err
	}
	if _, err := ParseEventScope(string(e.Scope)); err != nil {
		return err
	}
	return nil
}

// InitialStatus computes the status an event starts in: vacation
// requests from non-admins await approval, everything else is approved
// on creation.
func InitialStatus(eventType EventType, creatorRole UserRole) EventStatus {
	if eventType == EventTypeVacation && creatorRole != RoleAdmin {
		return StatusPending
	}
	return StatusApproved
}

// Verdict is an admin's decision on a pending request.
type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
)

// Status returns the status a verdict resolves to.
func (v Verdict) Status() (EventStatus, error) {
	switch v {
	case VerdictApprove:
		return StatusApproved, nil
	case VerdictReject:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unrecognized verdict %q", v)
	}
}
