package models

import "time"

// Team is a reference record mapping a team id to its display name.
type Team struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NoTeamName is the sentinel rendered for users and events without a team.
const NoTeamName = "no team"
