package handlers

import (
	"github.com/gofiber/fiber/v2"

	"officehub/internal/middleware"
)

func (h *Handler) MyNotifications(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	notifications, err := h.Store.ListNotificationsByUser(c.Context(), caller.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Notifications fetched successfully", notifications)
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid notification ID")
	}

	updated, err := h.Store.MarkNotificationRead(c.Context(), id, caller.UserID)
	if err != nil {
		return fail(c, err)
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  fiber.StatusNotFound,
		})
	}
	return ok(c, "Notification marked as read", nil)
}
