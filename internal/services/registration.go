package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/yktwalker/event-registration-api/internal/models"

	"gorm.io/gorm"
)

type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// RegisterResult reports a registration batch: the records created plus the
// target ids that were silently skipped (already registered, or stale ids
// that no longer resolve to a participant).
type RegisterResult struct {
	Registrations         []models.Registration `json:"registrations"`
	SkippedParticipantIDs []uint                `json:"skipped_participant_ids"`
}

// SyncResult carries the registrations a client is missing and the server
// time that becomes the client's next watermark.
type SyncResult struct {
	NewRegistrations []models.Registration `json:"new_registrations"`
	ServerTime       time.Time             `json:"server_time"`
}

// RegistrationRow is one line of an event's registration listing, joined
// with the registrar's identity and the participant's directories. ID is the
// participant's id, matching the check-in and unregister route parameters.
type RegistrationRow struct {
	ID                   uint                   `json:"id"`
	FullName             string                 `json:"full_name"`
	Email                string                 `json:"email,omitempty"`
	Phone                string                 `json:"phone,omitempty"`
	Note                 string                 `json:"note,omitempty"`
	ArrivalTime          *time.Time             `json:"arrival_time"`
	RegisteredByFullName string                 `json:"registered_by_full_name"`
	RegisteredByRole     models.Role            `json:"registered_by_role"`
	Directories          []models.DirectoryLink `json:"directories"`
}

type SearchParams struct {
	Query         string
	SortBy        string // alphabet, arrival_time_desc, arrival_time_asc
	FilterArrived bool
	Page          int
	Limit         int
}

// Register creates one registration per participant in the union of the
// explicit id list and the directory's current members, skipping anyone
// already registered and any id that doesn't resolve. The whole batch
// commits in one transaction.
func (s *RegistrationService) Register(eventID uint, participantIDs []uint, directoryID *uint, actor *models.SystemUser) (*RegisterResult, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	if !event.RegistrationActive {
		return nil, ErrRegistrationClosed
	}

	targetSet := make(map[uint]bool)
	for _, id := range participantIDs {
		targetSet[id] = true
	}

	if directoryID != nil {
		memberIDs, err := directoryMemberIDs(s.db, *directoryID)
		if err != nil {
			return nil, err
		}
		for _, id := range memberIDs {
			targetSet[id] = true
		}
	}

	if len(targetSet) == 0 {
		return nil, fmt.Errorf("no participants specified: %w", ErrInvalidRequest)
	}

	targetIDs := make([]uint, 0, len(targetSet))
	for id := range targetSet {
		targetIDs = append(targetIDs, id)
	}
	sort.Slice(targetIDs, func(i, j int) bool { return targetIDs[i] < targetIDs[j] })

	result := &RegisterResult{
		Registrations:         []models.Registration{},
		SkippedParticipantIDs: []uint{},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existingIDs []uint
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND participant_id IN ?", eventID, targetIDs).
			Pluck("participant_id", &existingIDs).Error; err != nil {
			return err
		}
		existing := make(map[uint]bool, len(existingIDs))
		for _, id := range existingIDs {
			existing[id] = true
		}

		var resolvedIDs []uint
		if err := tx.Model(&models.Participant{}).
			Where("id IN ?", targetIDs).
			Pluck("id", &resolvedIDs).Error; err != nil {
			return err
		}
		resolved := make(map[uint]bool, len(resolvedIDs))
		for _, id := range resolvedIDs {
			resolved[id] = true
		}

		now := time.Now().UTC()
		for _, id := range targetIDs {
			// Tolerant of stale directory members and double submissions:
			// skip silently instead of failing the batch.
			if existing[id] || !resolved[id] {
				result.SkippedParticipantIDs = append(result.SkippedParticipantIDs, id)
				continue
			}

			registration := models.Registration{
				EventID:          eventID,
				ParticipantID:    id,
				RegisteredByID:   actor.ID,
				RegistrationTime: now,
			}
			if err := tx.Create(&registration).Error; err != nil {
				return translateDB(err)
			}
			registration.RegisteredBy = actor
			result.Registrations = append(result.Registrations, registration)
		}

		if len(result.Registrations) > 0 {
			audit := models.AuditLog{
				EventID:   eventID,
				Timestamp: now,
				Action:    models.AuditActionRegister,
				UserID:    actor.ID,
				Details:   fmt.Sprintf("registered %d participants", len(result.Registrations)),
			}
			if err := tx.Create(&audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unregister deletes the registration for (event, participant).
func (s *RegistrationService) Unregister(eventID, participantID uint, actor *models.SystemUser) (*models.Registration, error) {
	var registration models.Registration
	if err := s.db.
		Where("event_id = ? AND participant_id = ?", eventID, participantID).
		First(&registration).Error; err != nil {
		return nil, fmt.Errorf("registration: %w", ErrNotFound)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&registration).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			EventID:   eventID,
			Timestamp: time.Now().UTC(),
			Action:    models.AuditActionUnregister,
			UserID:    actor.ID,
			Details:   fmt.Sprintf("unregistered participant %d", participantID),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// SetArrival stamps the registration with the current server time. Repeated
// check-in overwrites the previous timestamp.
func (s *RegistrationService) SetArrival(eventID, participantID uint, actor *models.SystemUser) (*models.Registration, error) {
	var registration models.Registration
	if err := s.db.Preload("RegisteredBy").
		Where("event_id = ? AND participant_id = ?", eventID, participantID).
		First(&registration).Error; err != nil {
		return nil, fmt.Errorf("participant is not registered for this event: %w", ErrNotFound)
	}

	// Stored naive UTC to match the timestamp-without-timezone column.
	now := time.Now().UTC().Truncate(time.Microsecond)
	registration.ArrivalTime = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&registration).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			EventID:   eventID,
			Timestamp: now,
			Action:    models.AuditActionArrivalSet,
			UserID:    actor.ID,
			Details:   fmt.Sprintf("arrival set for participant %d", participantID),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// ClearArrival resets the arrival timestamp back to null.
func (s *RegistrationService) ClearArrival(eventID, participantID uint, actor *models.SystemUser) (*models.Registration, error) {
	var registration models.Registration
	if err := s.db.
		Where("event_id = ? AND participant_id = ?", eventID, participantID).
		First(&registration).Error; err != nil {
		return nil, fmt.Errorf("registration: %w", ErrNotFound)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&registration).Update("arrival_time", nil).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			EventID:   eventID,
			Timestamp: time.Now().UTC(),
			Action:    models.AuditActionArrivalUnset,
			UserID:    actor.ID,
			Details:   fmt.Sprintf("arrival cleared for participant %d", participantID),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}
	registration.ArrivalTime = nil
	return &registration, nil
}

// Sync returns the event's registrations the caller does not have yet. Both
// watermark filters are applied together when supplied: a record counts as
// new only if it is later than last_sync_time AND absent from the known-id
// set. Afterwards the caller's last_sync_time advances to the server time,
// not to the newest returned record, so an empty sync still moves forward.
func (s *RegistrationService) Sync(eventID uint, lastSyncTime *time.Time, knownIDs []uint, actor *models.SystemUser) (*SyncResult, error) {
	serverTime := time.Now().UTC()

	query := s.db.Preload("RegisteredBy").Where("event_id = ?", eventID)
	if lastSyncTime != nil {
		query = query.Where("registration_time > ?", lastSyncTime.UTC())
	}
	if len(knownIDs) > 0 {
		query = query.Where("id NOT IN ?", knownIDs)
	}

	var registrations []models.Registration
	if err := query.Order("registration_time ASC").Find(&registrations).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.SystemUser{}).
		Where("id = ?", actor.ID).
		Update("last_sync_time", serverTime).Error; err != nil {
		return nil, err
	}

	return &SyncResult{
		NewRegistrations: registrations,
		ServerTime:       serverTime,
	}, nil
}

// Search lists an event's registrations joined with participant and
// registrar details, with substring search, arrival filtering, sorting and
// page/limit pagination.
func (s *RegistrationService) Search(eventID uint, params SearchParams) ([]RegistrationRow, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	query := s.db.Model(&models.Registration{}).
		Select(`participants.id AS id,
			participants.full_name,
			participants.email,
			participants.phone,
			participants.note,
			registrations.arrival_time,
			system_users.username AS registered_by_full_name,
			system_users.role AS registered_by_role`).
		Joins("JOIN participants ON participants.id = registrations.participant_id").
		Joins("JOIN system_users ON system_users.id = registrations.registered_by_id").
		Where("registrations.event_id = ?", eventID)

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		query = query.Where(
			"participants.full_name LIKE ? OR participants.email LIKE ? OR participants.note LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if params.FilterArrived {
		query = query.Where("registrations.arrival_time IS NOT NULL")
	}

	switch params.SortBy {
	case "arrival_time_desc":
		query = query.Order("CASE WHEN registrations.arrival_time IS NULL THEN 1 ELSE 0 END, registrations.arrival_time DESC")
	case "arrival_time_asc":
		query = query.Order("CASE WHEN registrations.arrival_time IS NULL THEN 1 ELSE 0 END, registrations.arrival_time ASC")
	default:
		query = query.Order("participants.full_name ASC")
	}

	offset := (params.Page - 1) * params.Limit
	query = query.Offset(offset).Limit(params.Limit)

	type scanRow struct {
		ID                   uint
		FullName             string
		Email                string
		Phone                string
		Note                 string
		ArrivalTime          *time.Time
		RegisteredByFullName string
		RegisteredByRole     models.Role
	}
	var rows []scanRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	participantIDs := make([]uint, len(rows))
	for i, r := range rows {
		participantIDs[i] = r.ID
	}
	dirs, err := s.directoriesFor(participantIDs)
	if err != nil {
		return nil, err
	}

	out := make([]RegistrationRow, len(rows))
	for i, r := range rows {
		links := dirs[r.ID]
		if links == nil {
			links = []models.DirectoryLink{}
		}
		out[i] = RegistrationRow{
			ID:                   r.ID,
			FullName:             r.FullName,
			Email:                r.Email,
			Phone:                r.Phone,
			Note:                 r.Note,
			ArrivalTime:          r.ArrivalTime,
			RegisteredByFullName: r.RegisteredByFullName,
			RegisteredByRole:     r.RegisteredByRole,
			Directories:          links,
		}
	}
	return out, nil
}

func (s *RegistrationService) directoriesFor(participantIDs []uint) (map[uint][]models.DirectoryLink, error) {
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
