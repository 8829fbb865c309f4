package models

import "time"

type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleOperator    Role = "Operator"
	RoleRegistrar   Role = "Registrar"
	RoleParticipant Role = "Participant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleRegistrar, RoleParticipant:
		return true
	}
	return false
}

type SystemUser struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Role         Role       `gorm:"size:20;not null" json:"role"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:255" json:"full_name"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
