package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"officehub/internal/middleware"
	"officehub/internal/models"
	"officehub/internal/store"
	"officehub/pkg/logger"
)

func defaultSetting(userID int) *models.UserSetting {
	return &models.UserSetting{
		UserID:                 userID,
		AppearanceTheme:        "light",
		DashboardDefaultTab:    "emp-dashboard",
		NotifyTaskStatusChange: true,
		NotifyOverdueAlerts:    true,
		NotifyEmailReminders:   false,
		UpdatedAt:              time.Now().UTC().Truncate(time.Second),
	}
}

// MySettings returns the caller's settings, creating the defaults on
// first access.
func (h *Handler) MySettings(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	setting, err := h.Store.GetSetting(c.Context(), caller.UserID)
	if err != nil {
		if !store.IsNoRows(err) {
			return fail(c, err)
		}
		setting = defaultSetting(caller.UserID)
		if err := h.Store.UpsertSetting(c.Context(), setting); err != nil {
			return fail(c, err)
		}
	}
	return ok(c, "Settings fetched successfully", setting)
}

func (h *Handler) UpdateMySettings(c *fiber.Ctx) error {
	caller := middleware.Caller(c)

	type SettingPatch struct {
		AppearanceTheme        *string `json:"appearanceTheme"`
		DashboardDefaultTab    *string `json:"dashboardDefaultTab"`
		NotifyTaskStatusChange *bool   `json:"notifyTaskStatusChange"`
		NotifyOverdueAlerts    *bool   `json:"notifyOverdueAlerts"`
		NotifyEmailReminders   *bool   `json:"notifyEmailReminders"`
	}
	var patch SettingPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Bad request")
	}

	setting, err := h.Store.GetSetting(c.Context(), caller.UserID)
	if err != nil {
		if !store.IsNoRows(err) {
			return fail(c, err)
		}
		setting = defaultSetting(caller.UserID)
	}

	if patch.AppearanceTheme != nil && *patch.AppearanceTheme != "" {
		setting.AppearanceTheme = *patch.AppearanceTheme
	}
	if patch.DashboardDefaultTab != nil && *patch.DashboardDefaultTab != "" {
		setting.DashboardDefaultTab = *patch.DashboardDefaultTab
	}
	if patch.NotifyTaskStatusChange != nil {
		setting.NotifyTaskStatusChange = *patch.NotifyTaskStatusChange
	}
	if patch.NotifyOverdueAlerts != nil {
		setting.NotifyOverdueAlerts = *patch.NotifyOverdueAlerts
	}
	if patch.NotifyEmailReminders != nil {
		setting.NotifyEmailReminders = *patch.NotifyEmailReminders
	}
	setting.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := h.Store.UpsertSetting(c.Context(), setting); err != nil {
		return fail(c, err)
	}
	logger.AuditLogger.Info("Settings updated", zap.Int("user_id", caller.UserID))
	return ok(c, "Settings updated successfully", setting)
}
