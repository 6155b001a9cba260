package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents the audit_logs table. Append-only: rows are written by
// state transitions and never updated.
type AuditLog struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Action         string         `gorm:"size:100;not null;index" json:"action"`
	UserID         *uint          `gorm:"index" json:"user_id"`         // nullable (org-initiated actions)
	OrganizationID *uint          `gorm:"index" json:"organization_id"` // nullable (user-initiated actions)
	Target         string         `gorm:"size:100;index" json:"target"` // entity the action touched, e.g. "event:12"
	Metadata       datatypes.JSON `json:"metadata"`                     // freeform JSON details
	IPAddress      string         `gorm:"size:45" json:"ip_address"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	Action         string     `json:"action"`
	UserID         *uint      `json:"user_id"`
	OrganizationID *uint      `json:"organization_id"`
	Target         string     `json:"target"`
	FromDate       *time.Time `json:"from_date"`
	ToDate         *time.Time `json:"to_date"`
	Limit          int        `json:"limit"`
}

// AuditEvent is the payload shipped to the audit-events kafka topic
type AuditEvent struct {
	Action         string                 `json:"action"`
	UserID         *uint                  `json:"user_id,omitempty"`
	OrganizationID *uint                  `json:"organization_id,omitempty"`
	Target         string                 `json:"target,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}
