package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quality-audit/backend/internal/http/dto"
	"github.com/quality-audit/backend/internal/middleware"
	"github.com/quality-audit/backend/internal/services"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditSvc *services.AuditService
	log      *zap.Logger
}

func NewAuditHandler(auditSvc *services.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc, log: log}
}

func (h *AuditHandler) CreateAudit(c *fiber.Ctx) error {
	var req dto.CreateAuditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	performedBy, err := uuid.Parse(req.PerformedByUserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid performed_by_user_id"})
	}

	input := services.CreateAuditInput{
		PerformedByUserID:      performedBy,
		MeasurementPlanVersion: req.MeasurementPlanVersion,
		Notes:                  req.Notes,
		Answers:                make([]services.AnswerInput, 0, len(req.Answers)),
	}
	for _, a := range req.Answers {
		itemID, err := uuid.Parse(a.ChecklistItemID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid checklist_item_id"})
		}
		input.Answers = append(input.Answers, services.AnswerInput{
			ChecklistItemID: itemID,
			Answer:          a.Answer,
			Comment:         a.Comment,
		})
	}

	detail, err := h.auditSvc.CreateAudit(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("create audit failed", zap.Error(err),
			zap.String("user_id", middleware.GetUserID(c).String()))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.Status(fiber.StatusCreated).JSON(detail)
}

func (h *AuditHandler) ListAudits(c *fiber.Ctx) error {
	audits, err := h.auditSvc.ListAudits(c.Context())
	if err != nil {
		h.log.Error("list audits failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(audits)
}

func (h *AuditHandler) GetAudit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid audit id"})
	}

	detail, err := h.auditSvc.GetAudit(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "audit not found"})
		}
		h.log.Error("get audit failed", zap.Error(err), zap.String("audit_id", id.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(detail)
}

func (h *AuditHandler) GetAuditReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid audit id"})
	}

	report, err := h.auditSvc.GetReport(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "audit not found"})
		}
		h.log.Error("audit report failed", zap.Error(err), zap.String("audit_id", id.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(report)
}
