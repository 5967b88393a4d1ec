package auth

import "github.com/Zachkp/portfolio/internal/model"

// CanAccessDashboard reports whether role may sign in to /admin.
func CanAccessDashboard(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleEditor
}

// CanEditContent reports whether role may create, update or delete content.
func CanEditContent(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleEditor
}

// CanManageUsers reports whether role may list accounts and change roles.
func CanManageUsers(role model.Role) bool {
	return role == model.RoleAdmin
}
