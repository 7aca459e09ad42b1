package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/api/dto"
	"github.com/spec-kit/cms-console/internal/notify"
	"github.com/spec-kit/cms-console/internal/preferences"
	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// PreferencesHandler exposes notification and appearance preferences.
type PreferencesHandler struct {
	bridge     *notify.Bridge
	appearance *preferences.Appearance
}

// NewPreferencesHandler constructs handler.
func NewPreferencesHandler(bridge *notify.Bridge, appearance *preferences.Appearance) *PreferencesHandler {
	return &PreferencesHandler{bridge: bridge, appearance: appearance}
}

// Get handles GET /api/preferences.
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"notifications": h.bridge.Settings(),
		"appearance":    h.appearance.Settings(),
	}})
}

// ToggleSound handles POST /api/preferences/sound/toggle.
func (h *PreferencesHandler) ToggleSound(c *fiber.Ctx) error {
	if _, err := h.bridge.ToggleSound(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.bridge.Settings()})
}

// ToggleNotifications handles POST /api/preferences/notifications/toggle.
func (h *PreferencesHandler) ToggleNotifications(c *fiber.Ctx) error {
	if _, err := h.bridge.ToggleNotifications(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.bridge.Settings()})
}

// ToggleTheme handles POST /api/preferences/theme/toggle.
func (h *PreferencesHandler) ToggleTheme(c *fiber.Ctx) error {
	if _, err := h.appearance.ToggleTheme(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.appearance.Settings()})
}

// SetFont handles PUT /api/preferences/font.
func (h *PreferencesHandler) SetFont(c *fiber.Ctx) error {
	var req dto.FontRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Font) == "" {
		return apperrors.NewValidationError("font is required", map[string]any{"field": "font"})
	}
	if err := h.appearance.SetFont(c.UserContext(), req.Font); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.appearance.Settings()})
}
