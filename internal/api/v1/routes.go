package v1

import (
	"github.com/gofiber/fiber/v2"

	"officehub/internal/api/v1/handlers"
	"officehub/internal/middleware"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/login", h.Login)

	auth := middleware.UseToken(h.Secret)

	// Employee directory (admin)
	userRoutes := api.Group("/users", auth)
	userRoutes.Get("/", h.ListUsers)
	userRoutes.Post("/", h.CreateUser)
	userRoutes.Get("/:id", h.GetUser)
	userRoutes.Put("/:id", h.UpdateUser)
	userRoutes.Patch("/:id", h.UpdateUser)
	userRoutes.Delete("/:id", h.DeleteUser)

	// Tasks
	taskRoutes := api.Group("/tasks", auth)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Get("/my", h.MyTasks)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Put("/:id", h.UpdateTask)
	taskRoutes.Patch("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)
	taskRoutes.Post("/:id/complete", h.CompleteTask)
	taskRoutes.Get("/:id/comments", h.ListTaskComments)
	taskRoutes.Post("/:id/comments", h.AddTaskComment)
	taskRoutes.Get("/:id/history", h.TaskHistory)

	// Leave requests
	leaveRoutes := api.Group("/leaves", auth)
	leaveRoutes.Post("/", h.CreateLeave)
	leaveRoutes.Get("/my", h.MyLeaves)
	leaveRoutes.Post("/search", h.SearchLeaves)
	leaveRoutes.Put("/:id", h.UpdateLeave)
	leaveRoutes.Patch("/:id", h.UpdateLeave)
	leaveRoutes.Put("/:id/cancel", h.CancelLeave)
	leaveRoutes.Patch("/:id/cancel", h.CancelLeave)
	leaveRoutes.Patch("/:id/approve", h.ApproveLeave)
	leaveRoutes.Patch("/:id/reject", h.RejectLeave)

	// Settings
	settingRoutes := api.Group("/settings", auth)
	settingRoutes.Get("/me", h.MySettings)
	settingRoutes.Put("/me", h.UpdateMySettings)
	settingRoutes.Patch("/me", h.UpdateMySettings)

	// Notifications
	notificationRoutes := api.Group("/notifications", auth)
	notificationRoutes.Get("/my", h.MyNotifications)
	notificationRoutes.Patch("/:id/read", h.MarkNotificationRead)
}
