package models

import "time"

// Participant is a person that can be registered to events. The
// (full_name, note) pair is the dedup key for bulk imports, so note is a
// plain string: an absent note is "" and still participates in the key.
type Participant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255;not null;uniqueIndex:idx_participants_name_note" json:"full_name"`
	Email    string `gorm:"size:255;index" json:"email,omitempty"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	Note     string `gorm:"size:1024;uniqueIndex:idx_participants_name_note" json:"note,omitempty"`

	Registrations        []Registration        `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
	DirectoryMemberships []DirectoryMembership `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
