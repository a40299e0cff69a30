package models

import "time"

// AuditAction identifies what an audit log entry records.
type AuditAction string

const (
	AuditActionLogin     AuditAction = "LOGIN"
	AuditActionLogout    AuditAction = "LOGOUT"
	AuditActionProvision AuditAction = "PROVISION"
	AuditActionDecision  AuditAction = "DECISION"
)

// AuditLog is an append-only trail entry for authentication events and
// approval decisions.
type AuditLog struct {
	ID         string      `db:"id" json:"id"`
	UserID     *string     `db:"user_id" json:"user_id,omitempty"`
	Action     AuditAction `db:"action" json:"action"`
	Resource   string      `db:"resource" json:"resource"`
	ResourceID *string     `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte      `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string      `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string      `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
