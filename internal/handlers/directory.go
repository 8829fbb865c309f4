package handlers

import (
	"net/http"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

type AddMemberRequest struct {
	DirectoryID   uint `json:"directory_id" binding:"required"`
	ParticipantID uint `json:"participant_id" binding:"required"`
}

// CreateDirectory godoc
// @Summary      Create a directory
// @Tags         directories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.DirectoryCreate true "Directory data"
// @Success      200 {object} models.Directory
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/directories [post]
func (h *DirectoryHandler) CreateDirectory(c *gin.Context) {
	var req services.DirectoryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	directory, err := h.directoryService.Create(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, directory)
}

// ListDirectories godoc
// @Summary      List directories
// @Tags         directories
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Directory
// @Router       /api/v1/directories [get]
func (h *DirectoryHandler) ListDirectories(c *gin.Context) {
	directories, err := h.directoryService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, directories)
}

// UpdateDirectory godoc
// @Summary      Update a directory
// @Tags         directories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Directory ID"
// @Param        request body services.DirectoryUpdate true "Fields to update"
// @Success      200 {object} models.Directory
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/directories/{id} [put]
func (h *DirectoryHandler) UpdateDirectory(c *gin.Context) {
	directoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var upd services.DirectoryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	directory, err := h.directoryService.Update(directoryID, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, directory)
}

// DeleteDirectory godoc
// @Summary      Delete a directory and its memberships
// @Tags         directories
// @Security     BearerAuth
// @Param        id path int true "Directory ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/directories/{id} [delete]
func (h *DirectoryHandler) DeleteDirectory(c *gin.Context) {
	directoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.directoryService.Delete(directoryID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMember godoc
// @Summary      Add a participant to a directory
// @Tags         directories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AddMemberRequest true "Link data"
// @Success      200 {object} models.DirectoryMembership
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/directories/add-member [post]
func (h *DirectoryHandler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	membership, err := h.directoryService.AddMember(req.DirectoryID, req.ParticipantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

// RemoveMember godoc
// @Summary      Remove a participant from a directory
// @Tags         directories
// @Security     BearerAuth
// @Param        id path int true "Directory ID"
// @Param        participant_id path int true "Participant ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/directories/{id}/members/{participant_id} [delete]
func (h *DirectoryHandler) RemoveMember(c *gin.Context) {
	directoryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participant_id")
	if !ok {
		return
	}

	if err := h.directoryService.RemoveMember(directoryID, participantID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers godoc
// @Summary      List a directory's participants
// @Tags         directories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Directory ID"
// @Param        query query string false "Substring over name/email/note"
// @Param        limit query int false "Page size" default(100)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} models.Participant
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/directories/{id}/members [get]
func (h *DirectoryHandler) ListMembers(c *gin.Context) {
	directoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	query := c.Query("query")
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	members, err := h.directoryService.ListMembers(directoryID, query, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
