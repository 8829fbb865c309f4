package apierrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "INTERNAL_ERROR"
)

// APIError is the JSON body every failed request carries.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func respond(c *gin.Context, status int, code, message string) {
	c.JSON(status, &APIError{Code: code, Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	respond(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "insufficient permissions"
	}
	respond(c, http.StatusForbidden, CodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	respond(c, http.StatusNotFound, CodeNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}
	respond(c, http.StatusConflict, CodeConflict, message)
}

func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	respond(c, http.StatusBadRequest, CodeInvalidInput, message)
}

func Internal(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	respond(c, http.StatusInternalServerError, CodeInternal, message)
}
