package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yktwalker/event-registration-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func requireRouter(op Operation, user *models.SystemUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if user != nil {
				SetCurrentUser(c, user)
			}
		},
		Require(op),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func performGuarded(op Operation, user *models.SystemUser) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	requireRouter(op, user).ServeHTTP(w, req)
	return w.Code
}

func userWithRole(role models.Role) *models.SystemUser {
	return &models.SystemUser{ID: 1, Username: "u", Role: role}
}

func TestRequire_PermissionTable(t *testing.T) {
	cases := []struct {
		name string
		op   Operation
		role models.Role
		want int
	}{
		{"admin can manage users", OpUserManage, models.RoleAdmin, http.StatusOK},
		{"operator cannot manage users", OpUserManage, models.RoleOperator, http.StatusForbidden},
		{"registrar cannot manage users", OpUserManage, models.RoleRegistrar, http.StatusForbidden},

		{"operator manages events", OpEventManage, models.RoleOperator, http.StatusOK},
		{"registrar cannot manage events", OpEventManage, models.RoleRegistrar, http.StatusForbidden},
		{"participant views events", OpEventView, models.RoleParticipant, http.StatusOK},
		{"participant cannot view registrations", OpRegistrationView, models.RoleParticipant, http.StatusForbidden},

		{"registrar views registrations", OpRegistrationView, models.RoleRegistrar, http.StatusOK},
		{"registrar checks in", OpCheckIn, models.RoleRegistrar, http.StatusOK},
		{"operator checks in", OpCheckIn, models.RoleOperator, http.StatusOK},
		{"registrar cannot register", OpRegistrationManage, models.RoleRegistrar, http.StatusForbidden},
		{"operator registers", OpRegistrationManage, models.RoleOperator, http.StatusOK},

		{"registrar views directories", OpDirectoryView, models.RoleRegistrar, http.StatusOK},
		{"registrar cannot manage directories", OpDirectoryManage, models.RoleRegistrar, http.StatusForbidden},

		{"admin allowed everywhere", OpRegistrationManage, models.RoleAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, performGuarded(tc.op, userWithRole(tc.role)))
		})
	}
}

func TestRequire_NoAuthenticatedUser(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, performGuarded(OpEventView, nil))
}
