package services

import (
	"fmt"

	"github.com/yktwalker/event-registration-api/internal/models"

	"gorm.io/gorm"
)

type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

type ParticipantCreate struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Note     string `json:"note"`
}

type ParticipantUpdate struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Note     *string `json:"note"`
}

// ParticipantWithDirectories is a participant plus the directories it
// belongs to, as returned by read endpoints.
type ParticipantWithDirectories struct {
	models.Participant
	Directories []models.DirectoryLink `json:"directories"`
}

// BulkCreateResult separates created records from inputs skipped as
// duplicates, so callers can observe partial success.
type BulkCreateResult struct {
	Created []models.Participant `json:"created"`
	Skipped []ParticipantCreate  `json:"skipped"`
}

func (s *ParticipantService) Create(req ParticipantCreate) (*models.Participant, error) {
	var existing models.Participant
	if err := s.db.Where("full_name = ? AND note = ?", req.FullName, req.Note).
		First(&existing).Error; err == nil {
		return nil, fmt.Errorf("participant %q already exists: %w", req.FullName, ErrConflict)
	}

	participant := models.Participant{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Note:     req.Note,
	}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, translateDB(err)
	}
	return &participant, nil
}

// BulkCreate inserts every non-duplicate entry and commits whatever
// succeeded. Duplicates against existing rows or earlier entries of the same
// batch are skipped, not errors.
func (s *ParticipantService) BulkCreate(reqs []ParticipantCreate) (*BulkCreateResult, error) {
	result := &BulkCreateResult{
		Created: []models.Participant{},
		Skipped: []ParticipantCreate{},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, req := range reqs {
			var existing models.Participant
			if err := tx.Where("full_name = ? AND note = ?", req.FullName, req.Note).
				First(&existing).Error; err == nil {
				result.Skipped = append(result.Skipped, req)
				continue
			}

			participant := models.Participant{
				FullName: req.FullName,
				Email:    req.Email,
				Phone:    req.Phone,
				Note:     req.Note,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return translateDB(err)
			}
			result.Created = append(result.Created, participant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ParticipantService) Get(participantID uint) (*ParticipantWithDirectories, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, fmt.Errorf("participant %d: %w", participantID, ErrNotFound)
	}

	dirs, err := s.directoriesFor([]uint{participantID})
	if err != nil {
		return nil, err
	}
	return &ParticipantWithDirectories{
		Participant: participant,
		Directories: dirs[participantID],
	}, nil
}

func (s *ParticipantService) List(limit, offset int) ([]ParticipantWithDirectories, error) {
	var participants []models.Participant
	if err := s.db.Order("id ASC").Limit(limit).Offset(offset).Find(&participants).Error; err != nil {
		return nil, err
	}
	return s.attachDirectories(participants)
}

func (s *ParticipantService) Search(query string, limit int) ([]ParticipantWithDirectories, error) {
	pattern := "%" + query + "%"
	var participants []models.Participant
	if err := s.db.
		Where("full_name LIKE ? OR email LIKE ? OR note LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return s.attachDirectories(participants)
}

func (s *ParticipantService) Update(participantID uint, upd ParticipantUpdate) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return nil, fmt.Errorf("participant %d: %w", participantID, ErrNotFound)
	}

	if upd.FullName != nil || upd.Note != nil {
		newName := participant.FullName
		newNote := participant.Note
		if upd.FullName != nil {
			newName = *upd.FullName
		}
		if upd.Note != nil {
			newNote = *upd.Note
		}

		var dup models.Participant
		if err := s.db.
			Where("full_name = ? AND note = ? AND id != ?", newName, newNote, participantID).
			First(&dup).Error; err == nil {
			return nil, fmt.Errorf("participant with this name and note already exists: %w", ErrConflict)
		}
	}

	if upd.FullName != nil {
		participant.FullName = *upd.FullName
	}
	if upd.Email != nil {
		participant.Email = *upd.Email
	}
	if upd.Phone != nil {
		participant.Phone = *upd.Phone
	}
	if upd.Note != nil {
		participant.Note = *upd.Note
	}

	if err := s.db.Save(&participant).Error; err != nil {
		return nil, translateDB(err)
	}
	return &participant, nil
}

// Delete removes the participant together with its registrations and
// directory memberships.
func (s *ParticipantService) Delete(participantID uint) error {
	var participant models.Participant
	if err := s.db.First(&participant, participantID).Error; err != nil {
		return fmt.Errorf("participant %d: %w", participantID, ErrNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participantID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("participant_id = ?", participantID).Delete(&models.DirectoryMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&participant).Error
	})
}

func (s *ParticipantService) attachDirectories(participants []models.Participant) ([]ParticipantWithDirectories, error) {
	ids := make([]uint, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	dirs, err := s.directoriesFor(ids)
	if err != nil {
		return nil, err
	}

	out := make([]ParticipantWithDirectories, len(participants))
	for i, p := range participants {
		links := dirs[p.ID]
		if links == nil {
			links = []models.DirectoryLink{}
		}
		out[i] = ParticipantWithDirectories{Participant: p, Directories: links}
	}
	return out, nil
}

func (s *ParticipantService) directoriesFor(participantIDs []uint) (map[uint][]models.DirectoryLink, error) {
	result := make(map[uint][]models.DirectoryLink)
	if len(participantIDs) == 0 {
		return result, nil
	}

	type row struct {
		ParticipantID uint
		DirID         uint
		DirName       string
	}
	var rows []row
	err := s.db.Model(&models.DirectoryMembership{}).
		Select("directory_memberships.participant_id, directories.id AS dir_id, directories.name AS dir_name").
		Joins("JOIN directories ON directories.id = directory_memberships.directory_id").
		Where("directory_memberships.participant_id IN ?", participantIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.ParticipantID] = append(result[r.ParticipantID], models.DirectoryLink{ID: r.DirID, Name: r.DirName})
	}
	return result, nil
}
