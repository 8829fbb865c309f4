package services

import (
	"fmt"

	"github.com/yktwalker/event-registration-api/internal/models"

	"gorm.io/gorm"
)

type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

type DirectoryCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type DirectoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *DirectoryService) Create(req DirectoryCreate) (*models.Directory, error) {
	var existing models.Directory
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("directory %q already exists: %w", req.Name, ErrConflict)
	}

	directory := models.Directory{Name: req.Name, Description: req.Description}
	if err := s.db.Create(&directory).Error; err != nil {
		return nil, translateDB(err)
	}
	return &directory, nil
}

func (s *DirectoryService) List() ([]models.Directory, error) {
	var directories []models.Directory
	if err := s.db.Order("name ASC").Find(&directories).Error; err != nil {
		return nil, err
	}
	return directories, nil
}

func (s *DirectoryService) Update(directoryID uint, upd DirectoryUpdate) (*models.Directory, error) {
	var directory models.Directory
	if err := s.db.First(&directory, directoryID).Error; err != nil {
		return nil, fmt.Errorf("directory %d: %w", directoryID, ErrNotFound)
	}

	if upd.Name != nil && *upd.Name != directory.Name {
		var dup models.Directory
		if err := s.db.Where("name = ? AND id != ?", *upd.Name, directoryID).
			First(&dup).Error; err == nil {
			return nil, fmt.Errorf("directory %q already exists: %w", *upd.Name, ErrConflict)
		}
		directory.Name = *upd.Name
	}
	if upd.Description != nil {
		directory.Description = *upd.Description
	}

	if err := s.db.Save(&directory).Error; err != nil {
		return nil, translateDB(err)
	}
	return &directory, nil
}

func (s *DirectoryService) Delete(directoryID uint) error {
	var directory models.Directory
	if err := s.db.First(&directory, directoryID).Error; err != nil {
		return fmt.Errorf("directory %d: %w", directoryID, ErrNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("directory_id = ?", directoryID).Delete(&models.DirectoryMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&directory).Error
	})
}

func (s *DirectoryService) AddMember(directoryID, participantID uint) (*models.DirectoryMembership, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, fmt.Errorf("participant %d: %w", participantID, ErrNotFound)
	}
	var directory models.Directory
	if err := s.db.First(&directory, directoryID).Error; err != nil {
		return nil, fmt.Errorf("directory %d: %w", directoryID, ErrNotFound)
	}

	membership := models.DirectoryMembership{
		DirectoryID:   directoryID,
		ParticipantID: participantID,
	}
	// Duplicate links are rejected by the (directory_id, participant_id)
	// unique index and surfaced as a generic conflict.
	if err := s.db.Create(&membership).Error; err != nil {
		return nil, fmt.Errorf("participant already in this directory: %w", ErrConflict)
	}
	return &membership, nil
}

func (s *DirectoryService) RemoveMember(directoryID, participantID uint) error {
	var membership models.DirectoryMembership
	if err := s.db.
		Where("directory_id = ? AND participant_id = ?", directoryID, participantID).
		First(&membership).Error; err != nil {
		return fmt.Errorf("participant not in this directory: %w", ErrNotFound)
	}
	return s.db.Delete(&membership).Error
}

// ListMembers returns the directory's participants, optionally filtered by a
// substring over name/email/note, with limit/offset pagination.
func (s *DirectoryService) ListMembers(directoryID uint, query string, limit, offset int) ([]models.Participant, error) {
	var directory models.Directory
	if err := s.db.First(&directory, directoryID).Error; err != nil {
		return nil, fmt.Errorf("directory %d: %w", directoryID, ErrNotFound)
	}

	q := s.db.Model(&models.Participant{}).
		Joins("JOIN directory_memberships ON directory_memberships.participant_id = participants.id").
		Where("directory_memberships.directory_id = ?", directoryID)

	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("participants.full_name LIKE ? OR participants.email LIKE ? OR participants.note LIKE ?",
			pattern, pattern, pattern)
	}

	var participants []models.Participant
	if err := q.Order("participants.full_name ASC").Limit(limit).Offset(offset).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// directoryMemberIDs expands a directory to its current participant id set.
// The registration engine uses it to widen a batch to a whole directory.
func directoryMemberIDs(db *gorm.DB, directoryID uint) ([]uint, error) {
	var directory models.Directory
	if err := db.First(&directory, directoryID).Error; err != nil {
		return nil, fmt.Errorf("directory %d: %w", directoryID, ErrNotFound)
	}

	var ids []uint
	if err := db.Model(&models.DirectoryMembership{}).
		Where("directory_id = ?", directoryID).
		Pluck("participant_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
