package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tryon-service/internal/domain"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) DeleteByProvider(_ context.Context, provider domain.AuthProvider, providerID string) (bool, error) {
	for id, user := range s.users {
		if user.Provider == provider && user.ProviderID == providerID {
			delete(s.users, id)
			return true, nil
		}
	}
	return false, nil
}

func newAuthTestApp(repo *stubUserRepo, tokens *TokenManager, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"ok": false, "error": fiber.Map{"code": de.Code}})
		}
		return nil
	})

	mw := NewMiddleware(tokens, repo, "token")
	chain := append([]fiber.Handler{mw.Handle}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"email": principal.User.Email})
	})
	app.Get("/protected", chain...)
	return app
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func cookieCleared(resp *http.Response) bool {
	for _, c := range resp.Cookies() {
		if c.Name == "token" && c.Value == "" {
			return true
		}
	}
	return false
}

func TestMiddlewareAllowsConfirmedUser(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "a@b.com", Provider: domain.ProviderLocal, Tier: domain.TierUnpaid, EmailConfirmed: true},
	}}
	app := newAuthTestApp(repo, tokens)

	token, _, err := tokens.GenerateToken("u1", "a@b.com", false)
	require.NoError(t, err)

	resp, err := app.Test(authedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	app := newAuthTestApp(&stubUserRepo{users: map[string]*domain.User{}}, tokens)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareBannedUserForbiddenAndCookieCleared(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "a@b.com", Provider: domain.ProviderLocal, Tier: domain.TierBanned, EmailConfirmed: true},
	}}
	app := newAuthTestApp(repo, tokens)

	token, _, err := tokens.GenerateToken("u1", "a@b.com", false)
	require.NoError(t, err)

	resp, err := app.Test(authedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.True(t, cookieCleared(resp), "banned user's session cookie must be cleared")
}

func TestMiddlewareUnconfirmedLocalForbiddenAndCookieCleared(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "a@b.com", Provider: domain.ProviderLocal, Tier: domain.TierUnpaid, EmailConfirmed: false},
	}}
	app := newAuthTestApp(repo, tokens)

	token, _, err := tokens.GenerateToken("u1", "a@b.com", false)
	require.NoError(t, err)

	resp, err := app.Test(authedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.True(t, cookieCleared(resp))
}

func TestMiddlewareUnconfirmedSocialUserPasses(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "a@b.com", Provider: domain.ProviderGoogle, Tier: domain.TierUnpaid, EmailConfirmed: false},
	}}
	app := newAuthTestApp(repo, tokens)

	token, _, err := tokens.GenerateToken("u1", "a@b.com", false)
	require.NoError(t, err)

	resp, err := app.Test(authedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareAcceptsBearerHeader(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "a@b.com", Provider: domain.ProviderLocal, Tier: domain.TierPaid, EmailConfirmed: true},
	}}
	app := newAuthTestApp(repo, tokens)

	token, _, err := tokens.GenerateToken("u1", "a@b.com", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePaidBlocksUnpaid(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"free": {ID: "free", Email: "f@b.com", Provider: domain.ProviderLocal, Tier: domain.TierUnpaid, EmailConfirmed: true},
		"pro":  {ID: "pro", Email: "p@b.com", Provider: domain.ProviderLocal, Tier: domain.TierPaid, EmailConfirmed: true},
	}}
	app := newAuthTestApp(repo, tokens, RequirePaid())

	freeToken, _, err := tokens.GenerateToken("free", "f@b.com", false)
	require.NoError(t, err)
	proToken, _, err := tokens.GenerateToken("pro", "p@b.com", false)
	require.NoError(t, err)

	resp, err := app.Test(authedRequest(freeToken))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(authedRequest(proToken))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtractTokenIgnoresMalformedHeader(t *testing.T) {
	tokens := NewTokenManager("s", 7, 30)
	app := newAuthTestApp(&stubUserRepo{users: map[string]*domain.User{}}, tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", strings.Repeat("x", 10))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
