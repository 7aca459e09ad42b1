package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/guard"
	"github.com/spec-kit/cms-console/internal/observability"
	"github.com/spec-kit/cms-console/internal/session"
)

// fromCookie remembers where an unauthenticated operator was headed.
const fromCookie = "console_from"

// CredentialReader exposes the in-memory session state.
type CredentialReader interface {
	State() session.Credential
}

func location(c *fiber.Ctx) guard.Location {
	// Fragments never reach the server.
	return guard.Location{
		Path:  c.Path(),
		Query: string(c.Request().URI().QueryString()),
	}
}

func follow(c *fiber.Ctx, metrics *observability.Metrics, d guard.Decision) error {
	metrics.RecordRedirect(d.Redirect)
	return c.Redirect(d.Redirect, fiber.StatusFound)
}

// protectedPage wraps a page that needs a logged-in operator with a role in allowed.
func protectedPage(sessions CredentialReader, allowed session.RoleSet, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := guard.Authenticated(location(c), sessions.State(), allowed)
		if d.Render() {
			return c.Next()
		}
		if d.Redirect == guard.PathLogin {
			c.Cookie(&fiber.Cookie{
				Name:     fromCookie,
				Value:    guard.SafeFrom(c.Path()),
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Expires:  time.Now().Add(10 * time.Minute),
			})
		}
		return follow(c, metrics, d)
	}
}

// publicPage wraps a page meant for logged-out operators, such as the login form.
func publicPage(sessions CredentialReader, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := guard.Anonymous(location(c), sessions.State(), c.Cookies(fromCookie))
		if d.Render() {
			return c.Next()
		}
		if d.Redirect != guard.PathBadRequest {
			c.ClearCookie(fromCookie)
		}
		return follow(c, metrics, d)
	}
}

// notFound is the catch-all page, sanitised on the path only.
func notFound(sessions CredentialReader, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := guard.Sanitizer(location(c))
		if !d.Render() {
			return follow(c, metrics, d)
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"view": "not-found", "role": sessions.State().Role})
	}
}
