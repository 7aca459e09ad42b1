package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/session"
	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// RequireRole ensures the principal's role is in allowed. An unrestricted
// set admits any logged-in operator.
func RequireRole(allowed session.RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("login required")
		}
		if !allowed.Allows(principal.Role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
