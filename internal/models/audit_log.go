package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Details   string    `gorm:"type:text" json:"details,omitempty"`
}

const (
	AuditActionRegister     = "register"
	AuditActionUnregister   = "unregister"
	AuditActionArrivalSet   = "arrival_set"
	AuditActionArrivalUnset = "arrival_unset"
)
