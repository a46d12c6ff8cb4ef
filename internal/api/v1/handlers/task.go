package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"officehub/internal/config"
	"officehub/internal/middleware"
	"officehub/internal/service"
	"officehub/pkg/logger"
)

// Task handlers. All permission decisions live in the service; the
// handlers only parse, validate and translate.

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	var req service.CreateTaskInput
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return badRequest(c, "Bad request")
	}
	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return badRequest(c, "Validation error")
	}

	task, err := h.Tasks.Create(c.Context(), caller, req)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID), zap.Int("creator", caller.UserID))
	return created(c, "Task created successfully", task)
}

// ListTasks is the admin view with optional status / assigneeId equality
// filters.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	var assigneeID *int
	if v := c.Query("assigneeId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "Invalid assigneeId")
		}
		assigneeID = &id
	}

	tasks, err := h.Tasks.ListAll(c.Context(), caller, status, assigneeID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Tasks fetched successfully", tasks)
}

func (h *Handler) MyTasks(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	tasks, err := h.Tasks.ListMine(c.Context(), caller)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Tasks fetched successfully", tasks)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.Tasks.Get(c.Context(), caller, taskID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Task found", task)
}

func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	var patch service.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return badRequest(c, "Bad request")
	}

	task, err := h.Tasks.Update(c.Context(), caller, taskID, patch)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID), zap.Int("user", caller.UserID))
	return ok(c, "Task updated successfully", task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	if err := h.Tasks.Delete(c.Context(), caller, taskID); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID), zap.Int("user", caller.UserID))
	return ok(c, "Task deleted successfully", nil)
}

func (h *Handler) CompleteTask(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.Tasks.Complete(c.Context(), caller, taskID)
	if err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Task completed", zap.Int("task_id", taskID), zap.Int("user", caller.UserID))
	return ok(c, "Task completed", task)
}

func (h *Handler) ListTaskComments(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	comments, err := h.Tasks.ListComments(c.Context(), caller, taskID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Comments fetched successfully", comments)
}

func (h *Handler) AddTaskComment(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	type CommentRequest struct {
		Content string `json:"content" validate:"required"`
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := config.Validate.Struct(req); err != nil {
		return badRequest(c, "Validation error")
	}

	comment, err := h.Tasks.AddComment(c.Context(), caller, taskID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Comment added", comment)
}

func (h *Handler) TaskHistory(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	history, err := h.Tasks.History(c.Context(), caller, taskID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "History fetched successfully", history)
}
