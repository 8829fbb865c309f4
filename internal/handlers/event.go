package handlers

import (
	"net/http"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents godoc
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Event
// @Router       /api/v1/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetActiveEvent godoc
// @Summary      Get the currently active event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.Event
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/active [get]
func (h *EventHandler) GetActiveEvent(c *gin.Context) {
	event, err := h.eventService.GetActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// GetActiveEventStats godoc
// @Summary      Registration counters for the active event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.ActiveEventStats
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/active/stats [get]
func (h *EventHandler) GetActiveEventStats(c *gin.Context) {
	stats, err := h.eventService.ActiveStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      200 {object} models.Event
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Get(eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent godoc
// @Summary      Create an event
// @Description  Fails with a conflict while another event is active
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.EventCreate true "Event data"
// @Success      200 {object} models.Event
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.EventCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Create(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary      Partially update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        request body services.EventUpdate true "Fields to update"
// @Success      200 {object} models.Event
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var upd services.EventUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Update(eventID, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary      Delete an event and its registrations
// @Tags         events
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(eventID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadStatsFile godoc
// @Summary      Download the plaintext attendance report
// @Tags         events
// @Produce      plain
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      200 {string} string
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/events/{id}/stats/file [get]
func (h *EventHandler) DownloadStatsFile(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	content, filename, err := h.eventService.StatsFile(eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}
