package handlers

import (
	"net/http"
	"time"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/middleware"
	"github.com/yktwalker/event-registration-api/internal/services"
	"github.com/yktwalker/event-registration-api/internal/ws"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
	hub                 *ws.Hub
}

func NewRegistrationHandler(registrationService *services.RegistrationService, hub *ws.Hub) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService, hub: hub}
}

type RegisterRequest struct {
	ParticipantIDs []uint `json:"participant_ids"`
	DirectoryID    *uint  `json:"directory_id"`
}

type SyncRequest struct {
	LastSyncTime         *time.Time `json:"last_sync_time"`
	KnownRegistrationIDs []uint     `json:"known_registration_ids"`
}

// Register godoc
// @Summary      Register participants for an event
// @Description  Accepts explicit participant ids, a directory id, or both; already-registered and unresolvable ids are skipped silently
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        request body RegisterRequest true "Registration target"
// @Success      200 {object} services.RegisterResult
// @Failure      403 {object} apierrors.APIError
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id}/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	actor, _ := middleware.CurrentUser(c)
	result, err := h.registrationService.Register(eventID, req.ParticipantIDs, req.DirectoryID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(result.Registrations) > 0 {
		ids := make([]uint, len(result.Registrations))
		participantIDs := make([]uint, len(result.Registrations))
		for i, r := range result.Registrations {
			ids[i] = r.ID
			participantIDs[i] = r.ParticipantID
		}
		h.hub.Broadcast(eventID, ws.NewRegistrations(actor.ID, actor.Username, ids, participantIDs))
	}

	c.JSON(http.StatusOK, result)
}

// Unregister godoc
// @Summary      Delete a participant's registration
// @Tags         registrations
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        participant_id path int true "Participant ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id}/participants/{participant_id} [delete]
func (h *RegistrationHandler) Unregister(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participant_id")
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	registration, err := h.registrationService.Unregister(eventID, participantID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.hub.Broadcast(eventID, ws.DeletedRegistration(registration.ID, participantID))
	c.Status(http.StatusNoContent)
}

// SetArrival godoc
// @Summary      Check a registered participant in
// @Description  Stamps the registration with the current server time; repeating overwrites the stamp
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        participant_id path int true "Participant ID"
// @Success      200 {object} models.Registration
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id}/participants/{participant_id}/arrival [put]
func (h *RegistrationHandler) SetArrival(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participant_id")
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	registration, err := h.registrationService.SetArrival(eventID, participantID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.hub.Broadcast(eventID, ws.ArrivalUpdate(registration.ID, participantID, registration.ArrivalTime, "set"))
	c.JSON(http.StatusOK, registration)
}

// ClearArrival godoc
// @Summary      Clear a participant's check-in
// @Tags         registrations
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        participant_id path int true "Participant ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id}/participants/{participant_id}/arrival [delete]
func (h *RegistrationHandler) ClearArrival(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participant_id")
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	registration, err := h.registrationService.ClearArrival(eventID, participantID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.hub.Broadcast(eventID, ws.ArrivalUpdate(registration.ID, participantID, nil, "unset"))
	c.Status(http.StatusNoContent)
}

// ListEventParticipants godoc
// @Summary      List an event's registered participants
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        query query string false "Substring over name/email/note"
// @Param        limit query int false "Page size" default(100)
// @Success      200 {array} services.RegistrationRow
// @Router       /api/v1/events/{id}/participants [get]
func (h *RegistrationHandler) ListEventParticipants(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	rows, err := h.registrationService.Search(eventID, services.SearchParams{
		Query: c.Query("query"),
		Page:  1,
		Limit: limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// SearchRegistrations godoc
// @Summary      Search an event's registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        query query string false "Substring over name/email/note"
// @Param        sort_by query string false "alphabet, arrival_time_desc or arrival_time_asc" default(alphabet)
// @Param        filter_arrived query bool false "Only participants with an arrival time"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(50)
// @Success      200 {array} services.RegistrationRow
// @Router       /api/v1/events/{id}/registrations/search [get]
func (h *RegistrationHandler) SearchRegistrations(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	rows, err := h.registrationService.Search(eventID, services.SearchParams{
		Query:         c.Query("query"),
		SortBy:        c.DefaultQuery("sort_by", "alphabet"),
		FilterArrived: c.Query("filter_arrived") == "true",
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Sync godoc
// @Summary      Fetch registrations the client is missing
// @Description  Applies the time watermark and known-id exclusion together, then advances the caller's watermark to the returned server_time
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        request body SyncRequest true "Client watermark"
// @Success      200 {object} services.SyncResult
// @Router       /api/v1/events/{id}/sync [post]
func (h *RegistrationHandler) Sync(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	actor, _ := middleware.CurrentUser(c)
	result, err := h.registrationService.Sync(eventID, req.LastSyncTime, req.KnownRegistrationIDs, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
