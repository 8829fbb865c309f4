package handlers

import (
	"net/http"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	participantService *services.ParticipantService
}

func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// CreateParticipant godoc
// @Summary      Create a participant
// @Description  The (full_name, note) pair must be unique
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.ParticipantCreate true "Participant data"
// @Success      200 {object} models.Participant
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/participants [post]
func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req services.ParticipantCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	participant, err := h.participantService.Create(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// BulkCreateParticipants godoc
// @Summary      Bulk-create participants
// @Description  Duplicates are skipped; the response separates created from skipped
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body []services.ParticipantCreate true "Participants"
// @Success      200 {object} services.BulkCreateResult
// @Router       /api/v1/participants/bulk [post]
func (h *ParticipantHandler) BulkCreateParticipants(c *gin.Context) {
	var reqs []services.ParticipantCreate
	if err := c.ShouldBindJSON(&reqs); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	result, err := h.participantService.BulkCreate(reqs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetParticipant godoc
// @Summary      Get a participant with its directories
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      200 {object} services.ParticipantWithDirectories
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/participants/{id} [get]
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	participantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	participant, err := h.participantService.Get(participantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// ListParticipants godoc
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} services.ParticipantWithDirectories
// @Router       /api/v1/participants [get]
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	participants, err := h.participantService.List(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// SearchParticipants godoc
// @Summary      Search participants by name, email or note
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Param        query query string true "Substring to search for"
// @Param        limit query int false "Page size" default(100)
// @Success      200 {array} services.ParticipantWithDirectories
// @Router       /api/v1/participants/search [get]
func (h *ParticipantHandler) SearchParticipants(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		apierrors.BadRequest(c, "query is required")
		return
	}
	limit := queryInt(c, "limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	participants, err := h.participantService.Search(query, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// UpdateParticipant godoc
// @Summary      Update a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Param        request body services.ParticipantUpdate true "Fields to update"
// @Success      200 {object} models.Participant
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/participants/{id} [put]
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	participantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var upd services.ParticipantUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	participant, err := h.participantService.Update(participantID, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// DeleteParticipant godoc
// @Summary      Delete a participant and its registrations
// @Tags         participants
// @Security     BearerAuth
// @Param        id path int true "Participant ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/participants/{id} [delete]
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	participantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.participantService.Delete(participantID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
