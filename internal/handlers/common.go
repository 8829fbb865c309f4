package handlers

import (
	"errors"
	"strconv"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer sentinel errors onto the HTTP error
// taxonomy.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrRegistrationClosed):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidRequest):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	default:
		apierrors.Internal(c, "")
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
