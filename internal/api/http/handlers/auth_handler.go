package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/api/dto"
	"github.com/spec-kit/tryon-service/internal/auth"
	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/oauth"
	"github.com/spec-kit/tryon-service/internal/service"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

const stateCookie = "oauth_state"

// AuthHandler exposes registration, login, confirmation and social sign-in.
type AuthHandler struct {
	auth      *service.AuthService
	providers *oauth.Registry
	cfg       config.AuthConfig
	devMode   bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, providers *oauth.Registry, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		auth:      authService,
		providers: providers,
		cfg:       cfg.Auth,
		devMode:   cfg.App.Env == "development",
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("full_name, email and password are required", nil)
	}
	if len(req.Password) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	user, confirmURL, err := h.auth.RegisterUser(c.UserContext(), req.FullName, req.Email, req.Password)
	if err != nil {
		return err
	}

	body := fiber.Map{
		"ok":      true,
		"message": "registration successful, please confirm your email",
		"user":    dto.NewUserResponse(user),
	}
	if h.devMode {
		body["confirm_url"] = confirmURL
	}
	return c.Status(http.StatusCreated).JSON(body)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, exp, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password, req.Remember)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.JSON(fiber.Map{
		"ok":   true,
		"user": dto.NewUserResponse(user),
	})
}

// Confirm handles POST /api/auth/confirm.
func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Token == "" {
		return apperrors.NewValidationError("email and token are required", nil)
	}

	if err := h.auth.ConfirmEmail(c.UserContext(), req.Email, req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "message": "email confirmed"})
}

// ResendConfirm handles POST /api/auth/resend-confirm.
func (h *AuthHandler) ResendConfirm(c *fiber.Ctx) error {
	var req dto.ResendConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	confirmURL, err := h.auth.ResendConfirmation(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	body := fiber.Map{"ok": true, "message": "confirmation email sent"}
	if h.devMode {
		body["confirm_url"] = confirmURL
	}
	return c.JSON(body)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"ok": true, "message": "logged out"})
}

// Upgrade handles POST /api/auth/upgrade.
func (h *AuthHandler) Upgrade(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.Upgrade(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "user": dto.NewUserResponse(user)})
}

// SocialRedirect handles GET /api/auth/:provider.
func (h *AuthHandler) SocialRedirect(c *fiber.Ctx) error {
	provider, err := h.providers.Get(c.Params("provider"))
	if err != nil {
		return apperrors.NewNotFound("provider", nil)
	}

	state, err := randomState()
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(provider.AuthURL(state), http.StatusFound)
}

// SocialCallback handles GET /api/auth/:provider/callback.
func (h *AuthHandler) SocialCallback(c *fiber.Ctx) error {
	provider, err := h.providers.Get(c.Params("provider"))
	if err != nil {
		return apperrors.NewNotFound("provider", nil)
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return apperrors.NewUnauthorized("oauth state mismatch")
	}
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	code := c.Query("code")
	if code == "" {
		return apperrors.NewValidationError("missing authorization code", nil)
	}

	profile, err := provider.Exchange(c.UserContext(), code)
	if err != nil {
		return apperrors.NewUpstreamError("social sign-in failed", err)
	}

	_, token, exp, err := h.auth.SocialLogin(c.UserContext(), provider.Name(), profile)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)
	return c.Redirect("/dashboard", http.StatusFound)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
