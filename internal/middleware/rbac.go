package middleware

import (
	"github.com/yktwalker/event-registration-api/internal/apierrors"
	"github.com/yktwalker/event-registration-api/internal/models"

	"github.com/gin-gonic/gin"
)

// Operation names a guarded capability. Every endpoint is gated by exactly
// one operation looked up in the permission table below, instead of
// per-endpoint role conditionals.
type Operation string

const (
	OpUserManage         Operation = "user:manage"
	OpEventView          Operation = "event:view"
	OpEventManage        Operation = "event:manage"
	OpParticipantView    Operation = "participant:view"
	OpParticipantManage  Operation = "participant:manage"
	OpDirectoryView      Operation = "directory:view"
	OpDirectoryManage    Operation = "directory:manage"
	OpRegistrationView   Operation = "registration:view"
	OpRegistrationManage Operation = "registration:manage"
	OpCheckIn            Operation = "registration:checkin"
)

// permissions maps each operation to the roles allowed to perform it.
// Admin is implicitly allowed everywhere.
var permissions = map[Operation][]models.Role{
	OpUserManage:         {},
	OpEventView:          {models.RoleOperator, models.RoleRegistrar, models.RoleParticipant},
	OpEventManage:        {models.RoleOperator},
	OpParticipantView:    {models.RoleOperator, models.RoleRegistrar},
	OpParticipantManage:  {models.RoleOperator},
	OpDirectoryView:      {models.RoleOperator, models.RoleRegistrar},
	OpDirectoryManage:    {models.RoleOperator},
	OpRegistrationView:   {models.RoleOperator, models.RoleRegistrar},
	OpRegistrationManage: {models.RoleOperator},
	OpCheckIn:            {models.RoleOperator, models.RoleRegistrar},
}

// Require gates the request on the permission table. It must run after
// JWTAuth.
func Require(op Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !allowed(op, user.Role) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func allowed(op Operation, role models.Role) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}
