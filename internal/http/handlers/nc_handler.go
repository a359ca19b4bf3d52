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

type NCHandler struct {
	ncSvc *services.NCService
	log   *zap.Logger
}

func NewNCHandler(ncSvc *services.NCService, log *zap.Logger) *NCHandler {
	return &NCHandler{ncSvc: ncSvc, log: log}
}

func (h *NCHandler) ListNonConformities(c *fiber.Ctx) error {
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	ncs, err := h.ncSvc.ListNonConformities(c.Context(), status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("list non-conformities failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(ncs)
}

func (h *NCHandler) GetNonConformity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid non-conformity id"})
	}

	detail, err := h.ncSvc.GetNonConformity(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "non-conformity not found"})
		}
		h.log.Error("get non-conformity failed", zap.Error(err), zap.String("nc_id", id.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(detail)
}

func (h *NCHandler) UpdateNonConformity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid non-conformity id"})
	}

	var req dto.UpdateNonConformityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	input := services.UpdateNonConformityInput{
		Status:           req.Status,
		Severity:         req.Severity,
		Responsible:      req.Responsible,
		RootCause:        req.RootCause,
		CorrectiveAction: req.CorrectiveAction,
		DueDate:          req.DueDate,
		AssignedToSet:    req.AssignedToUserID.Set,
	}
	if req.AssignedToUserID.Set && req.AssignedToUserID.Valid {
		assigneeID, err := uuid.Parse(req.AssignedToUserID.Value)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid assigned_to_user_id"})
		}
		input.AssignedToUserID = &assigneeID
	}

	detail, err := h.ncSvc.UpdateNonConformity(c.Context(), id, input, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "non-conformity not found"})
		}
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("update non-conformity failed", zap.Error(err), zap.String("nc_id", id.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(detail)
}
