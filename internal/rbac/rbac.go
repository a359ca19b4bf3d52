package rbac

import "github.com/quality-audit/backend/internal/models"

// Permission constants
const (
	PermCreateAudit        = "create_audit"
	PermUpdateNonConformity = "update_non_conformity"
	PermListUsers          = "list_users"
)

// RolePermissions defines what each role can do beyond read access.
// Viewers are read-only.
var RolePermissions = map[string][]string{
	models.RoleAuditor: {
		PermCreateAudit, PermUpdateNonConformity, PermListUsers,
	},
	models.RoleQualityManager: {
		PermCreateAudit, PermUpdateNonConformity, PermListUsers,
	},
	models.RoleViewer: {
		PermListUsers,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
