package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans registration state changes out to every open subscriber of an
// event. It keeps no history: a client that connects after a change catches
// up through the sync endpoint instead.
type Hub struct {
	mu     sync.RWMutex
	events map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		events: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(eventID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.events[eventID] == nil {
		h.events[eventID] = make(map[*websocket.Conn]bool)
	}
	h.events[eventID][conn] = true
	log.Printf("ws: client subscribed to event %d (total: %d)", eventID, len(h.events[eventID]))
}

func (h *Hub) RemoveConnection(eventID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.events[eventID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.events, eventID)
		}
		log.Printf("ws: client unsubscribed from event %d", eventID)
	}
}

// Broadcast delivers message to every subscriber of the event. Delivery is
// best-effort: a subscriber whose write fails is closed and pruned without
// affecting the rest.
func (h *Hub) Broadcast(eventID uint, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.events[eventID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.events, eventID)
	}
}

// SubscriberCount reports how many connections are subscribed to an event.
func (h *Hub) SubscriberCount(eventID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events[eventID])
}

// Message shapes pushed to subscribers.

type NewRegistrationsMessage struct {
	Type           string `json:"type"`
	RegistrarID    uint   `json:"registrar_id"`
	RegistrarName  string `json:"registrar_name"`
	IDs            []uint `json:"ids"`
	ParticipantIDs []uint `json:"participant_ids"`
}

func NewRegistrations(registrarID uint, registrarName string, ids, participantIDs []uint) NewRegistrationsMessage {
	return NewRegistrationsMessage{
		Type:           "new_registrations",
		RegistrarID:    registrarID,
		RegistrarName:  registrarName,
		IDs:            ids,
		ParticipantIDs: participantIDs,
	}
}

type DeletedRegistrationMessage struct {
	Type           string `json:"type"`
	RegistrationID uint   `json:"registration_id"`
	ParticipantID  uint   `json:"participant_id"`
}

func DeletedRegistration(registrationID, participantID uint) DeletedRegistrationMessage {
	return DeletedRegistrationMessage{
		Type:           "deleted_registration",
		RegistrationID: registrationID,
		ParticipantID:  participantID,
	}
}

type ArrivalUpdateMessage struct {
	Type           string     `json:"type"`
	RegistrationID uint       `json:"registration_id"`
	ParticipantID  uint       `json:"participant_id"`
	ArrivalTime    *time.Time `json:"arrival_time"`
	Action         string     `json:"action"`
}

func ArrivalUpdate(registrationID, participantID uint, arrivalTime *time.Time, action string) ArrivalUpdateMessage {
	return ArrivalUpdateMessage{
		Type:           "arrival_update",
		RegistrationID: registrationID,
		ParticipantID:  participantID,
		ArrivalTime:    arrivalTime,
		Action:         action,
	}
}
