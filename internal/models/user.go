package models

import (
	"fmt"
	"time"
)

// UserRole represents the closed set of roles.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ParseUserRole validates a stored role value. Unrecognized values are
// rejected at the store boundary rather than at display time.
func ParseUserRole(raw string) (UserRole, error) {
	switch UserRole(raw) {
	case RoleUser, RoleAdmin:
		return UserRole(raw), nil
	default:
		return "", fmt.Errorf("unrecognized user role %q", raw)
	}
}

// User represents an application user stored in the users table.
// PasswordHash is nil for directory-provisioned shadow identities.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	TeamID       *string    `db:"team_id" json:"team_id,omitempty"`
	External     bool       `db:"external" json:"external"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	TeamID   *string
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
