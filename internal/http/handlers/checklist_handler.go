package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/quality-audit/backend/internal/http/dto"
	"github.com/quality-audit/backend/internal/repositories"
	"go.uber.org/zap"
)

type ChecklistHandler struct {
	checklistRepo *repositories.ChecklistRepo
	log           *zap.Logger
}

func NewChecklistHandler(checklistRepo *repositories.ChecklistRepo, log *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{checklistRepo: checklistRepo, log: log}
}

func (h *ChecklistHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.checklistRepo.List(c.Context())
	if err != nil {
		h.log.Error("list checklist items failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(items)
}

func (h *ChecklistHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid checklist item id"})
	}

	item, err := h.checklistRepo.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "checklist item not found"})
	}
	return c.JSON(item)
}
