package models

import "time"

type Event struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Title              string    `gorm:"size:255;not null;index" json:"title"`
	Description        string    `gorm:"type:text" json:"description,omitempty"`
	EventDate          time.Time `json:"event_date"`
	RegistrationActive bool      `gorm:"not null;default:false" json:"registration_active"`
	MaxParticipants    *int      `json:"max_participants,omitempty"`

	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"registrations,omitempty"`
	Logs          []AuditLog     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
