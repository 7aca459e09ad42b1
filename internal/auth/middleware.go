// Package auth gates the console's JSON API on the operator's session.
package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/session"
	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the operator behind a request.
type Principal struct {
	Role session.Role
}

// CredentialReader exposes the in-memory session state.
type CredentialReader interface {
	State() session.Credential
}

// Middleware rejects API calls made without a logged-in operator.
type Middleware struct {
	sessions CredentialReader
}

// NewMiddleware constructs middleware.
func NewMiddleware(sessions CredentialReader) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	cred := m.sessions.State()
	if !cred.Authenticated() {
		return apperrors.NewUnauthorized("login required")
	}
	c.Locals(principalKey, &Principal{Role: cred.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the operator stored by Handle.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
