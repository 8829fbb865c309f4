package models

import "time"

// Registration joins one Event and one Participant. A participant can hold
// at most one registration per event; arrival_time stays null until check-in.
type Registration struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	EventID          uint       `gorm:"not null;uniqueIndex:idx_event_participant" json:"event_id"`
	ParticipantID    uint       `gorm:"not null;uniqueIndex:idx_event_participant" json:"participant_id"`
	RegisteredByID   uint       `gorm:"not null" json:"registered_by_user_id"`
	RegistrationTime time.Time  `gorm:"not null" json:"registration_time"`
	ArrivalTime      *time.Time `json:"arrival_time"`

	Event        Event       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Participant  Participant `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
	RegisteredBy *SystemUser `gorm:"foreignKey:RegisteredByID" json:"registered_by,omitempty"`
}
