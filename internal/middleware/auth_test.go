package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/quality-audit/backend/internal/models"
	"github.com/quality-audit/backend/internal/rbac"
)

func permTestApp(role, permission string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		func(c *fiber.Ctx) error {
			c.Locals(CtxUserRole, role)
			return c.Next()
		},
		RequirePermission(permission),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	return app
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		wantStatus int
	}{
		{"viewer cannot create audits", models.RoleViewer, rbac.PermCreateAudit, fiber.StatusForbidden},
		{"viewer cannot update non-conformities", models.RoleViewer, rbac.PermUpdateNonConformity, fiber.StatusForbidden},
		{"viewer can list users", models.RoleViewer, rbac.PermListUsers, fiber.StatusOK},
		{"auditor can create audits", models.RoleAuditor, rbac.PermCreateAudit, fiber.StatusOK},
		{"auditor can list users", models.RoleAuditor, rbac.PermListUsers, fiber.StatusOK},
		{"manager can list users", models.RoleQualityManager, rbac.PermListUsers, fiber.StatusOK},
		{"unknown role is denied", "INTERN", rbac.PermListUsers, fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := permTestApp(tt.role, tt.permission)
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/guarded", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
