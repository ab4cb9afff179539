package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tryon-service/internal/auth"
	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
	"github.com/spec-kit/tryon-service/internal/events"
	"github.com/spec-kit/tryon-service/internal/oauth"
	"github.com/spec-kit/tryon-service/internal/repository"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// AuthService coordinates registration, login, email confirmation and
// social sign-in.
type AuthService struct {
	users         repository.UserRepository
	tokenMgr      *auth.TokenManager
	dispatcher    events.Dispatcher
	bcryptCost    int
	confirmTTL    time.Duration
	publicBaseURL string

	deletionsMu sync.Mutex
	deletions   map[string]string
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLDays, cfg.Auth.RememberTokenTTLDays),
		dispatcher:    deps.Dispatcher,
		bcryptCost:    cfg.Auth.BcryptCost,
		confirmTTL:    time.Duration(cfg.Auth.ConfirmTokenTTLHours) * time.Hour,
		publicBaseURL: cfg.App.PublicBaseURL,
		deletions:     make(map[string]string),
	}
}

// RegisterUser creates a local account pending email confirmation and
// returns the confirmation URL.
func (s *AuthService) RegisterUser(ctx context.Context, fullName, email, password string) (*domain.User, string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	token, err := confirmationToken()
	if err != nil {
		return nil, "", err
	}
	expires := time.Now().Add(s.confirmTTL)

	user := &domain.User{
		FullName:       fullName,
		Email:          email,
		PasswordHash:   hash,
		Provider:       domain.ProviderLocal,
		Tier:           domain.TierUnpaid,
		EmailConfirmed: false,
		ConfirmToken:   &token,
		ConfirmExpires: &expires,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	confirmURL := s.confirmURL(user.Email, token)
	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:           user.Email,
		FullName:        user.FullName,
		VerificationURL: confirmURL,
	})
	return user, confirmURL, nil
}

// LoginUser authenticates a local account and issues a session token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string, remember bool) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("no account with this email")
		}
		return nil, "", time.Time{}, err
	}

	if user.Provider != domain.ProviderLocal {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(
			fmt.Sprintf("this account uses %s sign-in", user.Provider))
	}
	if user.Banned() {
		return nil, "", time.Time{}, apperrors.NewForbidden("account banned")
	}
	if user.RequiresConfirmation() {
		return nil, "", time.Time{}, apperrors.NewForbidden("email not confirmed")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, remember)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ConfirmEmail validates the confirmation token and activates the account.
func (s *AuthService) ConfirmEmail(ctx context.Context, email, token string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewValidationError("invalid token or email", nil)
		}
		return err
	}
	if user.ConfirmToken == nil || *user.ConfirmToken != token {
		return apperrors.NewValidationError("invalid token or email", nil)
	}
	if user.ConfirmExpires != nil && time.Now().After(*user.ConfirmExpires) {
		return apperrors.NewValidationError("token expired", nil)
	}

	user.EmailConfirmed = true
	user.ConfirmToken = nil
	user.ConfirmExpires = nil
	return s.users.Update(ctx, user)
}

// ResendConfirmation rotates the confirmation token and re-emits the
// registration event so the email is sent again.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("account", nil)
		}
		return "", err
	}
	if user.EmailConfirmed {
		return "", apperrors.NewConflict("email already confirmed", nil)
	}

	token, err := confirmationToken()
	if err != nil {
		return "", err
	}
	expires := time.Now().Add(s.confirmTTL)
	user.ConfirmToken = &token
	user.ConfirmExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	confirmURL := s.confirmURL(user.Email, token)
	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:           user.Email,
		FullName:        user.FullName,
		VerificationURL: confirmURL,
	})
	return confirmURL, nil
}

// SocialLogin resolves a social profile to an account, creating or linking
// by email, and issues a session token. Social accounts are auto-confirmed.
func (s *AuthService) SocialLogin(ctx context.Context, provider domain.AuthProvider, profile *oauth.Profile) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if user.Banned() {
			return nil, "", time.Time{}, apperrors.NewForbidden("account banned")
		}
		// Link the latest social provider to the existing account.
		if user.Provider != provider || user.ProviderID != profile.ExternalID {
			user.Provider = provider
			user.ProviderID = profile.ExternalID
			user.EmailConfirmed = true
			if err := s.users.Update(ctx, user); err != nil {
				return nil, "", time.Time{}, err
			}
		}
	case err == pgx.ErrNoRows:
		fullName := profile.FullName
		if fullName == "" {
			fullName = "User"
		}
		user = &domain.User{
			FullName:       fullName,
			Email:          profile.Email,
			Provider:       provider,
			ProviderID:     profile.ExternalID,
			Tier:           domain.TierUnpaid,
			EmailConfirmed: true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", time.Time{}, err
		}
	default:
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, false)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Upgrade flips an account to the paid tier.
func (s *AuthService) Upgrade(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Banned() {
		return nil, apperrors.NewForbidden("account banned")
	}
	user.Tier = domain.TierPaid
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteProviderData erases the account a social provider created and
// returns a confirmation code the provider can poll the outcome with.
// Unknown provider ids still get a code, recorded as no_data_found.
func (s *AuthService) DeleteProviderData(ctx context.Context, provider domain.AuthProvider, providerID string) (string, error) {
	deleted, err := s.users.DeleteByProvider(ctx, provider, providerID)
	if err != nil {
		return "", err
	}

	code, err := confirmationToken()
	if err != nil {
		return "", err
	}
	status := "no_data_found"
	if deleted {
		status = "deleted"
	}
	s.deletionsMu.Lock()
	s.deletions[code] = status
	s.deletionsMu.Unlock()
	return code, nil
}

// DeletionStatus reports the outcome recorded for a confirmation code.
func (s *AuthService) DeletionStatus(code string) (string, bool) {
	s.deletionsMu.Lock()
	defer s.deletionsMu.Unlock()
	status, ok := s.deletions[code]
	return status, ok
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) confirmURL(email, token string) string {
	return fmt.Sprintf("%s/auth/confirm?token=%s&email=%s",
		s.publicBaseURL, token, url.QueryEscape(email))
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func confirmationToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
