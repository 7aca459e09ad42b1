package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/api/dto"
	"github.com/spec-kit/cms-console/internal/service"
)

// FAQHandler exposes FAQ ordering.
type FAQHandler struct {
	faqs *service.FAQService
}

// NewFAQHandler constructs handler.
func NewFAQHandler(faqs *service.FAQService) *FAQHandler {
	return &FAQHandler{faqs: faqs}
}

// List handles GET /api/faqs.
func (h *FAQHandler) List(c *fiber.Ctx) error {
	faqs, err := h.faqs.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": faqs})
}

// Reorder handles PUT /api/faqs/reorder.
func (h *FAQHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	faqs, err := h.faqs.Reorder(c.UserContext(), req.IDs, req.From, req.To)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": faqs})
}
