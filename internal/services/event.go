package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yktwalker/event-registration-api/internal/models"

	"gorm.io/gorm"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type EventCreate struct {
	Title              string    `json:"title" binding:"required"`
	Description        string    `json:"description"`
	EventDate          time.Time `json:"event_date" binding:"required"`
	RegistrationActive bool      `json:"registration_active"`
	MaxParticipants    *int      `json:"max_participants"`
}

type EventUpdate struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	EventDate          *time.Time `json:"event_date"`
	RegistrationActive *bool      `json:"registration_active"`
	MaxParticipants    *int       `json:"max_participants"`
}

// ActiveEventStats summarizes the currently active event for the check-in desk.
type ActiveEventStats struct {
	EventID             uint   `json:"event_id"`
	EventTitle          string `json:"event_title"`
	TotalRegistrants    int64  `json:"total_registrants"`
	ArrivedParticipants int64  `json:"arrived_participants"`
}

func (s *EventService) Create(req EventCreate) (*models.Event, error) {
	if req.RegistrationActive {
		if err := s.ensureNoOtherActive(0); err != nil {
			return nil, err
		}
	}

	event := models.Event{
		Title:              req.Title,
		Description:        req.Description,
		EventDate:          req.EventDate.UTC(),
		RegistrationActive: req.RegistrationActive,
		MaxParticipants:    req.MaxParticipants,
	}
	// The one-active partial index backs up the check above under concurrency.
	if err := s.db.Create(&event).Error; err != nil {
		return nil, translateDB(err)
	}
	return &event, nil
}

func (s *EventService) Get(eventID uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	return &event, nil
}

func (s *EventService) List() ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Order("event_date DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) GetActive() (*models.Event, error) {
	var event models.Event
	if err := s.db.Where("registration_active = ?", true).First(&event).Error; err != nil {
		return nil, fmt.Errorf("no active event: %w", ErrNotFound)
	}
	return &event, nil
}

func (s *EventService) Update(eventID uint, upd EventUpdate) (*models.Event, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}

	if upd.RegistrationActive != nil && *upd.RegistrationActive {
		if err := s.ensureNoOtherActive(eventID); err != nil {
			return nil, err
		}
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.EventDate != nil {
		event.EventDate = upd.EventDate.UTC()
	}
	if upd.RegistrationActive != nil {
		event.RegistrationActive = *upd.RegistrationActive
	}
	if upd.MaxParticipants != nil {
		event.MaxParticipants = upd.MaxParticipants
	}

	if err := s.db.Save(event).Error; err != nil {
		return nil, translateDB(err)
	}
	return event, nil
}

// Delete removes the event; registrations and audit entries go with it.
func (s *EventService) Delete(eventID uint) error {
	event, err := s.Get(eventID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.AuditLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}

func (s *EventService) ActiveStats() (*ActiveEventStats, error) {
	event, err := s.GetActive()
	if err != nil {
		return nil, err
	}

	stats := ActiveEventStats{EventID: event.ID, EventTitle: event.Title}
	if err := s.db.Model(&models.Registration{}).
		Where("event_id = ?", event.ID).
		Count(&stats.TotalRegistrants).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Registration{}).
		Where("event_id = ? AND arrival_time IS NOT NULL", event.ID).
		Count(&stats.ArrivedParticipants).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// StatsFile renders the plaintext attendance report: arrived participants
// first, then absentees, with planned/arrived totals at the bottom.
func (s *EventService) StatsFile(eventID uint) (string, string, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return "", "", err
	}

	type row struct {
		FullName    string
		ArrivalTime *time.Time
	}
	var rows []row
	err = s.db.Model(&models.Registration{}).
		Select("participants.full_name, registrations.arrival_time").
		Joins("JOIN participants ON participants.id = registrations.participant_id").
		Where("registrations.event_id = ?", eventID).
		Order("CASE WHEN registrations.arrival_time IS NULL THEN 1 ELSE 0 END, participants.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return "", "", err
	}

	var arrived int
	var b strings.Builder
	fmt.Fprintf(&b, "Статистика по мероприятию: %s\n", event.Title)
	fmt.Fprintf(&b, "Дата: %s\n\n", event.EventDate.Format("02.01.2006 15:04"))
	for i, r := range rows {
		status := "Не пришел"
		if r.ArrivalTime != nil {
			status = "Пришел в " + r.ArrivalTime.Format("15:04:05")
			arrived++
		}
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, r.FullName, status)
	}
	fmt.Fprintf(&b, "\nИТОГО ЗАПЛАНИРОВАНО (всего регистраций): %d\n", len(rows))
	fmt.Fprintf(&b, "ИТОГО РЕАЛЬНО ПРИШЛО: %d\n", arrived)

	filename := fmt.Sprintf("stats_%d.txt", eventID)
	return b.String(), filename, nil
}

func (s *EventService) ensureNoOtherActive(excludeID uint) error {
	var existing models.Event
	query := s.db.Where("registration_active = ?", true)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.First(&existing).Error; err == nil {
		return fmt.Errorf(
			"event %d (%q) is already active, deactivate it first: %w",
			existing.ID, existing.Title, ErrConflict,
		)
	}
	return nil
}
