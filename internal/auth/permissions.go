package auth

import "rentease_backend/internal/models"

// Разрешения, проверяемые middleware.RequirePermission
const (
	PermAdminAccess        = "admin:access"
	PermUsersManage        = "users:manage"
	PermAgentsVerify       = "agents:verify"
	PermPropertiesModerate = "properties:moderate"
	PermReportsResolve     = "reports:resolve"
	PermEmailsSend         = "emails:send"

	PermPropertiesWrite    = "properties:write"
	PermBookingsManage     = "bookings:manage"
	PermBookingsCreate     = "bookings:create"
	PermReportsCreate      = "reports:create"
	PermSharedRentalsWrite = "shared_rentals:write"
	PermReviewsWrite       = "reviews:write"
)

// Permissions - RBAC: роль -> список разрешений
var Permissions = map[models.UserRole][]string{
	models.UserRoleAdmin: {
		PermAdminAccess,
		PermUsersManage,
		PermAgentsVerify,
		PermPropertiesModerate,
		PermReportsResolve,
		PermEmailsSend,
	},
	models.UserRoleAgent: {
		PermPropertiesWrite,
		PermBookingsManage,
		PermReportsCreate,
	},
	models.UserRoleStudent: {
		PermBookingsCreate,
		PermReportsCreate,
		PermSharedRentalsWrite,
		PermReviewsWrite,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Can - то же для сессии
func (s Session) Can(permission string) bool {
	return HasPermission(s.role, permission)
}
