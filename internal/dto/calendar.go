package dto

// ProjectedEvent is the presentation shape of one calendar entry. Start
// and End are rendered strings: date-only with an exclusive end for
// all-day entries, RFC 3339 instants otherwise.
type ProjectedEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Start           string `json:"start"`
	End             string `json:"end"`
	AllDay          bool   `json:"allDay"`
	Color           string `json:"color"`
	Status          string `json:"status"`
	Scope           string `json:"scope"`
	CreatorUsername string `json:"creator_username"`
	TeamName        string `json:"team_name"`
}

// CalendarResponse wraps the projected events for the requesting user.
type CalendarResponse struct {
	Events []ProjectedEvent `json:"events"`
}
