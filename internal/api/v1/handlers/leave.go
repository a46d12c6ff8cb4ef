package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"officehub/internal/config"
	"officehub/internal/middleware"
	"officehub/internal/service"
	"officehub/pkg/logger"
)

func (h *Handler) CreateLeave(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	var req service.LeaveCreateInput
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create leave", zap.Error(err))
		return badRequest(c, "Bad request")
	}
	if err := config.Validate.Struct(req); err != nil {
		return badRequest(c, "Validation error")
	}

	request, err := h.Leaves.Submit(c.Context(), caller, req)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Leave request submitted", zap.Int("leave_id", request.ID), zap.Int("user", caller.UserID))
	return created(c, "Leave request submitted", request)
}

func (h *Handler) MyLeaves(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	requests, err := h.Leaves.Mine(c.Context(), caller)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Leave requests fetched successfully", requests)
}

func (h *Handler) UpdateLeave(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	leaveID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid leave request ID")
	}

	var patch service.LeavePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Bad request")
	}

	request, err := h.Leaves.Update(c.Context(), caller, leaveID, patch)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Leave request updated", zap.Int("leave_id", leaveID), zap.Int("user", caller.UserID))
	return ok(c, "Leave request updated", request)
}

func (h *Handler) CancelLeave(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	leaveID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid leave request ID")
	}

	request, err := h.Leaves.Cancel(c.Context(), caller, leaveID)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Leave request cancelled", zap.Int("leave_id", leaveID), zap.Int("user", caller.UserID))
	return ok(c, "Leave request cancelled", request)
}

func (h *Handler) ApproveLeave(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	leaveID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid leave request ID")
	}

	request, err := h.Leaves.Approve(c.Context(), caller, leaveID)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Leave request approved", zap.Int("leave_id", leaveID), zap.Int("admin", caller.UserID))
	return ok(c, "Leave request approved", request)
}

func (h *Handler) RejectLeave(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	leaveID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid leave request ID")
	}

	request, err := h.Leaves.Reject(c.Context(), caller, leaveID)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Leave request rejected", zap.Int("leave_id", leaveID), zap.Int("admin", caller.UserID))
	return ok(c, "Leave request rejected", request)
}

// SearchLeaves serves the admin leave list. POST body carries the
// filters; an empty body means page 1 with the defaults.
func (h *Handler) SearchLeaves(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	var params service.LeaveSearchParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return badRequest(c, "Bad request")
		}
	}

	result, err := h.Leaves.Search(c.Context(), caller, params)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Leave requests fetched successfully", result)
}
