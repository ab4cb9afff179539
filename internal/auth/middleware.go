package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tryon-service/internal/domain"
	"github.com/spec-kit/tryon-service/internal/repository"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// Middleware validates the session cookie (or Bearer header) and loads the
// user, enforcing the ban and email-confirmation gates. A banned or
// unconfirmed caller has the credential cleared, not merely rejected.
type Middleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	cookieName string
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, cookieName string) *Middleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &Middleware{tokens: tokens, users: users, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr := m.extractToken(c)
	if tokenStr == "" {
		return apperrors.NewUnauthorized("no token provided")
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		m.clearCookie(c)
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			m.clearCookie(c)
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	if user.Banned() {
		m.clearCookie(c)
		return apperrors.NewForbidden("account banned")
	}
	if user.RequiresConfirmation() {
		m.clearCookie(c)
		return apperrors.NewForbidden("email not confirmed")
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// ClearCookie expires the session cookie on the response.
func (m *Middleware) ClearCookie(c *fiber.Ctx) {
	m.clearCookie(c)
}

func (m *Middleware) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}

func (m *Middleware) extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
