package models

type Directory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Memberships []DirectoryMembership `gorm:"foreignKey:DirectoryID;constraint:OnDelete:CASCADE" json:"-"`
}

type DirectoryMembership struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	DirectoryID   uint `gorm:"not null;uniqueIndex:idx_directory_participant" json:"directory_id"`
	ParticipantID uint `gorm:"not null;uniqueIndex:idx_directory_participant" json:"participant_id"`

	Directory   Directory   `gorm:"foreignKey:DirectoryID" json:"-"`
	Participant Participant `gorm:"foreignKey:ParticipantID" json:"-"`
}

// DirectoryLink is the compact form embedded in participant listings.
type DirectoryLink struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
