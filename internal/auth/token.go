package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewTokenManager builds a new manager. TTLs are in days.
func NewTokenManager(secret string, ttlDays, rememberTTLDays int) *TokenManager {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	if rememberTTLDays <= 0 {
		rememberTTLDays = 30
	}
	return &TokenManager{
		secret:      []byte(secret),
		ttl:         time.Duration(ttlDays) * 24 * time.Hour,
		rememberTTL: time.Duration(rememberTTLDays) * 24 * time.Hour,
	}
}

// Claims describes JWT payload.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the user. Remember extends the
// expiry to the long-lived TTL.
func (tm *TokenManager) GenerateToken(userID, email string, remember bool) (string, time.Time, error) {
	ttl := tm.ttl
	if remember {
		ttl = tm.rememberTTL
	}
	expiresAt := time.Now().Add(ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
