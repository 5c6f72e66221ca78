package entities

import (
	"strings"
	"time"
)

// AuditEventType classifies what happened to a catalog entity.
type AuditEventType string

const (
	AuditEventCreate  AuditEventType = "create"
	AuditEventUpdate  AuditEventType = "update"
	AuditEventDelete  AuditEventType = "delete"
	AuditEventCleanup AuditEventType = "cleanup"
)

// AuditEventTypes lists every type in display order.
var AuditEventTypes = []AuditEventType{
	AuditEventCreate,
	AuditEventUpdate,
	AuditEventDelete,
	AuditEventCleanup,
}

// Label is the capitalised type name shown in the audit page filter.
func (t AuditEventType) Label() string {
	if t == "" {
		return "All events"
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditMessageSize bounds Description and ErrorMsg.
const AuditMessageSize = 500

// AuditEvent is one row of the catalog change log. Action combines the
// entity and the event type, e.g. "title_create" or "author_cleanup".
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventID     string         `gorm:"uniqueIndex;size:36" json:"event_id"`
	EventType   AuditEventType `gorm:"index;size:20" json:"event_type"`
	Action      string         `gorm:"size:70" json:"action"`
	EntityType  string         `gorm:"size:50" json:"entity_type"`
	EntityID    *uint          `gorm:"index" json:"entity_id,omitempty"`
	Description string         `gorm:"size:500" json:"description"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
