package http

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/api/http/handlers"
	"github.com/spec-kit/tryon-service/internal/auth"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Models         *handlers.ModelsHandler
	TryOn          *handlers.TryOnHandler
	Orders         *handlers.OrdersHandler
	Download       *handlers.DownloadHandler
	Facebook       *handlers.FacebookHandler
	AuthMiddleware *auth.Middleware
	StaticDir      string
}

// staticPages maps pretty URLs to files under the static dir.
var staticPages = map[string]string{
	"/":             "index.html",
	"/login":        "login.html",
	"/register":     "register.html",
	"/pricing-page": "pricing.html",
	"/contact-page": "contact.html",
	"/dashboard":    "dashboard.html",
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/confirm", cfg.Auth.Confirm)
	authGroup.Post("/resend-confirm", cfg.Auth.ResendConfirm)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/upgrade", cfg.AuthMiddleware.Handle, cfg.Auth.Upgrade)
	authGroup.Get("/:provider", cfg.Auth.SocialRedirect)
	authGroup.Get("/:provider/callback", cfg.Auth.SocialCallback)

	// Called by Facebook, not by browsers; public by contract.
	facebookGroup := api.Group("/facebook")
	facebookGroup.Post("/data-deletion", cfg.Facebook.DataDeletion)
	facebookGroup.Get("/deletion-status", cfg.Facebook.DeletionStatus)

	api.Get("/user/info", cfg.AuthMiddleware.Handle, cfg.Users.Info)

	paid := api.Group("", cfg.AuthMiddleware.Handle, auth.RequirePaid())
	paid.Get("/models", cfg.Models.List)
	paid.Post("/tryon/process", cfg.TryOn.Process)
	paid.Get("/tryon/status/:taskId", cfg.TryOn.Status)
	paid.Get("/orders", cfg.Orders.List)
	paid.Get("/download", cfg.Download.Get)

	registerStatic(app, cfg.StaticDir)
}

func registerStatic(app *fiber.App, staticDir string) {
	if staticDir == "" {
		return
	}

	for route, file := range staticPages {
		page := filepath.Join(staticDir, file)
		app.Get(route, func(c *fiber.Ctx) error {
			return c.SendFile(page)
		})
	}

	app.Static("/", staticDir)

	notFoundPage := filepath.Join(staticDir, "404.html")
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return apperrors.NewNotFound("route", nil)
		}
		return c.Status(fiber.StatusNotFound).SendFile(notFoundPage)
	})
}
