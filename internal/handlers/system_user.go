package handlers

import (
	"net/http"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/middleware"
	"github.com/yktwalker/event-registration-api/internal/models"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
)

type SystemUserHandler struct {
	userService *services.SystemUserService
}

func NewSystemUserHandler(userService *services.SystemUserService) *SystemUserHandler {
	return &SystemUserHandler{userService: userService}
}

type CreateSystemUserRequest struct {
	Username string      `json:"username" binding:"required,min=1,max=100"`
	Password string      `json:"password" binding:"required,min=6"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role" binding:"required"`
}

// CreateUser godoc
// @Summary      Create a system user
// @Tags         system-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSystemUserRequest true "User data"
// @Success      200 {object} models.SystemUser
// @Failure      409 {object} apierrors.APIError
// @Router       /api/v1/system-users [post]
func (h *SystemUserHandler) CreateUser(c *gin.Context) {
	var req CreateSystemUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary      List system users
// @Tags         system-users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.SystemUser
// @Router       /api/v1/system-users [get]
func (h *SystemUserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser godoc
// @Summary      Update a system user
// @Tags         system-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body services.SystemUserUpdate true "Fields to update"
// @Success      200 {object} models.SystemUser
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/system-users/{id} [put]
func (h *SystemUserHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var upd services.SystemUserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	actor, _ := middleware.CurrentUser(c)
	user, err := h.userService.Update(userID, actor.ID, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete a system user
// @Tags         system-users
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      204
// @Failure      404 {object} apierrors.APIError
// @Router       /api/v1/system-users/{id} [delete]
func (h *SystemUserHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(c)
	if err := h.userService.Delete(userID, actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
