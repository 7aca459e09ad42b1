package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/api/http/handlers"
	"github.com/spec-kit/cms-console/internal/auth"
	"github.com/spec-kit/cms-console/internal/observability"
	"github.com/spec-kit/cms-console/internal/routes"
	"github.com/spec-kit/cms-console/internal/session"
)

const toastStreamPath = "/api/toasts/stream"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Pages         routes.Table
	Sessions      CredentialReader
	Metrics       *observability.Metrics
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Notifications *handlers.NotificationsHandler
	Toasts        *handlers.ToastsHandler
	Preferences   *handlers.PreferencesHandler
	Resources     *handlers.ResourcesHandler
	FAQs          *handlers.FAQHandler
	Stats         *handlers.StatsHandler
}

// RegisterRoutes wires HTTP routes. Pages come last so the catch-all
// not-found page sees every unmatched path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Get("/session", cfg.Auth.Session)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	authMiddleware := auth.NewMiddleware(cfg.Sessions)
	api := app.Group("/api", authMiddleware.Handle)
	api.Post("/auth/logout", cfg.Auth.Logout)

	api.Get("/notifications", cfg.Notifications.List)
	api.Put("/notifications/read-all", cfg.Notifications.MarkAllRead)
	api.Put("/notifications/:id/read", cfg.Notifications.MarkRead)
	api.Delete("/notifications/:id", cfg.Notifications.Delete)
	api.Delete("/notifications", cfg.Notifications.Clear)

	api.Get("/toasts", cfg.Toasts.History)
	api.Get("/toasts/stream", cfg.Toasts.Stream)

	api.Get("/preferences", cfg.Preferences.Get)
	api.Post("/preferences/sound/toggle", cfg.Preferences.ToggleSound)
	api.Post("/preferences/notifications/toggle", cfg.Preferences.ToggleNotifications)
	api.Post("/preferences/theme/toggle", cfg.Preferences.ToggleTheme)
	api.Put("/preferences/font", cfg.Preferences.SetFont)

	// The users collection follows the users page's allow-list.
	usersRoles := session.Roles(session.RoleSuperAdmin)
	if r, ok := cfg.Pages.Find("/users"); ok {
		usersRoles = r.Roles
	}
	api.Get("/resources", cfg.Resources.Names)
	api.All("/resources/users/:id?", auth.RequireRole(usersRoles), func(c *fiber.Ctx) error {
		return c.Next()
	})
	api.All("/resources/:name/:id?", cfg.Resources.Proxy)

	api.Get("/faqs", cfg.FAQs.List)
	api.Put("/faqs/reorder", cfg.FAQs.Reorder)

	api.Get("/stats", cfg.Stats.Metrics)
	api.Get("/stats/:metric", cfg.Stats.Fetch)
	api.Get("/console/metrics", cfg.Stats.Console)

	registerPages(app, cfg)
}

func registerPages(app *fiber.App, cfg RouteConfig) {
	for _, r := range cfg.Pages {
		view := handlers.View(r.View, cfg.Sessions)
		switch r.Kind {
		case routes.Protected:
			app.Get(r.Path, protectedPage(cfg.Sessions, r.Roles, cfg.Metrics), view)
		case routes.Public:
			app.Get(r.Path, publicPage(cfg.Sessions, cfg.Metrics), view)
		default:
			app.Get(r.Path, view)
		}
	}
	app.Use(notFound(cfg.Sessions, cfg.Metrics))
}
