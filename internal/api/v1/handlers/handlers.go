package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"officehub/internal/service"
	"officehub/internal/store"
	"officehub/pkg/logger"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	Store     *store.Store
	Tasks     *service.TaskService
	Leaves    *service.LeaveService
	Directory *service.DirectoryService
	Secret    []byte
	TokenTTL  time.Duration
}

func New(st *store.Store, tasks *service.TaskService, leaves *service.LeaveService, dir *service.DirectoryService, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{
		Store:     st,
		Tasks:     tasks,
		Leaves:    leaves,
		Directory: dir,
		Secret:    secret,
		TokenTTL:  tokenTTL,
	}
}

func statusOf(err error) int {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindForbidden:
		return fiber.StatusForbidden
	case service.KindBadRequest:
		return fiber.StatusBadRequest
	case service.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// fail maps a service error onto the response envelope. Unclassified
// errors are storage failures and respond as 500.
func fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	switch status {
	case fiber.StatusForbidden:
		logger.SecurityLogger.Warn("Forbidden", zap.String("url", c.OriginalURL()), zap.Error(err))
	case fiber.StatusInternalServerError:
		logger.ErrorLogger.Error("Internal error", zap.String("url", c.OriginalURL()), zap.Error(err))
	}
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  status,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusBadRequest,
	})
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  fiber.StatusOK,
		"data":    data,
	})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  fiber.StatusCreated,
		"data":    data,
	})
}
