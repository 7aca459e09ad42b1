package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/api/dto"
	"github.com/spec-kit/cms-console/internal/session"
)

// CredentialReader exposes the in-memory session state.
type CredentialReader interface {
	State() session.Credential
}

// View renders the descriptor of one page. Guards run before it.
func View(view string, sessions CredentialReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.ViewResponse{View: view, Role: sessions.State().Role})
	}
}
