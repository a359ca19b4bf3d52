package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/quality-audit/backend/internal/config"
	"github.com/quality-audit/backend/internal/http/handlers"
	"github.com/quality-audit/backend/internal/middleware"
	"github.com/quality-audit/backend/internal/rbac"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	checklistHandler *handlers.ChecklistHandler,
	auditHandler *handlers.AuditHandler,
	ncHandler *handlers.NCHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public, rate-limited)
	api.Post("/auth/login",
		middleware.RateLimitMiddleware(rdb, cfg.LoginRateLimit, time.Minute),
		authHandler.Login)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Get("/auth/me", authHandler.Me)

	// Users
	protected.Get("/users",
		middleware.RequirePermission(rbac.PermListUsers),
		userHandler.ListUsers)
	protected.Get("/users/:id", userHandler.GetUser)

	// Checklist
	protected.Get("/checklist-items", checklistHandler.ListItems)
	protected.Get("/checklist-items/:id", checklistHandler.GetItem)

	// Audits
	protected.Post("/audits",
		middleware.RequirePermission(rbac.PermCreateAudit),
		auditHandler.CreateAudit)
	protected.Get("/audits", auditHandler.ListAudits)
	protected.Get("/audits/:id", auditHandler.GetAudit)
	protected.Get("/audits/:id/report", auditHandler.GetAuditReport)

	// Non-conformities
	protected.Get("/non-conformities", ncHandler.ListNonConformities)
	protected.Get("/non-conformities/:id", ncHandler.GetNonConformity)
	protected.Patch("/non-conformities/:id",
		middleware.RequirePermission(rbac.PermUpdateNonConformity),
		ncHandler.UpdateNonConformity)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
