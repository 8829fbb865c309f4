package middleware

import (
	"strings"

	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/models"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "current_user"

// JWTAuth validates the bearer token and stores the resolved account in the
// request context.
func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := authService.GetUser(userID)
		if err != nil {
			apierrors.Unauthorized(c, "unknown account")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated account stored by JWTAuth.
func CurrentUser(c *gin.Context) (*models.SystemUser, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.SystemUser)
	return user, ok
}

// SetCurrentUser injects an account directly, bypassing token validation.
// Used by handler tests.
func SetCurrentUser(c *gin.Context, user *models.SystemUser) {
	c.Set(contextUserKey, user)
}
