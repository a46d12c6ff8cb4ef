package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"officehub/internal/config"
	"officehub/internal/middleware"
	"officehub/internal/models"
	"officehub/internal/store"
	"officehub/pkg/logger"
)

// Employee directory handlers: thin admin-gated wrappers over the user
// store. The lifecycle services treat the ids handed out here as weak
// references, so deleting a user never cascades into tasks or leave
// requests.

// normalizeRole maps free-form role input onto the stored role values.
// Note that "manager" is stored as its own role but carries no admin
// rights anywhere in the system.
func normalizeRole(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "admin":
		return "admin"
	case "quản lý", "quan ly", "manager":
		return "manager"
	default:
		return "staff"
	}
}

func requireAdmin(c *fiber.Ctx) (models.Caller, bool) {
	caller := middleware.Caller(c)
	if !caller.IsAdmin() {
		logger.SecurityLogger.Warn("Forbidden", zap.String("role", caller.Role), zap.String("url", c.OriginalURL()))
		return caller, false
	}
	return caller, true
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"message": "Forbidden",
		"success": false,
		"status":  fiber.StatusForbidden,
	})
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	if _, isAdmin := requireAdmin(c); !isAdmin {
		return forbidden(c)
	}
	users, err := h.Store.ListUsers(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Users fetched successfully", users)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	if _, isAdmin := requireAdmin(c); !isAdmin {
		return forbidden(c)
	}
	userID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	user, err := h.Store.GetUser(c.Context(), userID)
	if err != nil {
		if store.IsNoRows(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  fiber.StatusNotFound,
			})
		}
		return fail(c, err)
	}
	return ok(c, "User found", user)
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	if _, isAdmin := requireAdmin(c); !isAdmin {
		return forbidden(c)
	}

	type CreateUserRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role"`
		Password string `json:"password" validate:"required,min=6"`
	}
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}
	if err := config.Validate.Struct(req); err != nil {
		return badRequest(c, "Validation error")
	}

	taken, err := h.Store.EmailTaken(c.Context(), req.Email, 0)
	if err != nil {
		return fail(c, err)
	}
	if taken {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Email already exists",
			"success": false,
			"status":  fiber.StatusConflict,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return fail(c, err)
	}

	user := &models.User{
		FullName: req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     normalizeRole(req.Role),
	}
	if err := h.Store.CreateUser(c.Context(), user); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("User created", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return created(c, "User created successfully", user)
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	if _, isAdmin := requireAdmin(c); !isAdmin {
		return forbidden(c)
	}
	userID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	user, err := h.Store.GetUser(c.Context(), userID)
	if err != nil {
		if store.IsNoRows(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  fiber.StatusNotFound,
			})
		}
		return fail(c, err)
	}

	type UpdateUserRequest struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Role     *string `json:"role"`
		Password *string `json:"password"`
	}
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.FullName = *req.Name
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		taken, err := h.Store.EmailTaken(c.Context(), *req.Email, userID)
		if err != nil {
			return fail(c, err)
		}
		if taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Email already used by another user",
				"success": false,
				"status":  fiber.StatusConflict,
			})
		}
		user.Email = *req.Email
	}
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		user.Role = normalizeRole(*req.Role)
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
			return fail(c, err)
		}
		user.Password = string(hashed)
	}
	user.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := h.Store.UpdateUser(c.Context(), user); err != nil {
		return fail(c, err)
	}
	h.Directory.Invalidate(c.Context(), userID)
	logger.AuditLogger.Info("User updated", zap.Int("user_id", userID))
	return ok(c, "User updated successfully", user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if _, isAdmin := requireAdmin(c); !isAdmin {
		return forbidden(c)
	}
	userID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if _, err := h.Store.GetUser(c.Context(), userID); err != nil {
		if store.IsNoRows(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
				"success": false,
				"status":  fiber.StatusNotFound,
			})
		}
		return fail(c, err)
	}

	if err := h.Store.DeleteUser(c.Context(), userID); err != nil {
		return fail(c, err)
	}
	h.Directory.Invalidate(c.Context(), userID)
	logger.AuditLogger.Info("User deleted", zap.Int("user_id", userID))
	return ok(c, "User deleted successfully", nil)
}
