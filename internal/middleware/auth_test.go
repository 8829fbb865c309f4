package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yktwalker/event-registration-api/internal/database"
	"github.com/yktwalker/event-registration-api/internal/models"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuth(t *testing.T) (*services.AuthService, *models.SystemUser) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	database.AutoMigrate(db)

	user := &models.SystemUser{Username: "operator", Role: models.RoleOperator, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	return services.NewAuthService(db, "test-secret", time.Hour), user
}

func authRouter(authService *services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(authService), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, user)
	})
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	authService, user := setupAuth(t)
	token, err := authService.GenerateToken(user.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(authService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"operator"`)
}

func TestJWTAuth_Rejections(t *testing.T) {
	authService, user := setupAuth(t)
	valid, err := authService.GenerateToken(user.ID)
	require.NoError(t, err)

	orphaned, err := authService.GenerateToken(999)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token " + valid},
		{"garbage token", "Bearer nonsense"},
		{"deleted account", "Bearer " + orphaned},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			authRouter(authService).ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
