package oauth

import (
	"context"
	"fmt"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
)

// Profile is the normalized identity returned by every social provider.
type Profile struct {
	Email      string
	FullName   string
	ExternalID string
}

// IdentityProvider abstracts one social login backend: build the consent
// URL, then exchange the callback code for a user profile.
type IdentityProvider interface {
	Name() domain.AuthProvider
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// Registry holds the providers enabled by configuration.
type Registry struct {
	providers map[domain.AuthProvider]IdentityProvider
}

// NewRegistry wires every provider that has credentials configured.
func NewRegistry(cfg config.OAuthConfig) *Registry {
	r := &Registry{providers: make(map[domain.AuthProvider]IdentityProvider)}
	if cfg.Google.ClientID != "" {
		r.providers[domain.ProviderGoogle] = NewGoogle(cfg.Google)
	}
	if cfg.Facebook.ClientID != "" {
		r.providers[domain.ProviderFacebook] = NewFacebook(cfg.Facebook)
	}
	if cfg.Apple.ClientID != "" {
		r.providers[domain.ProviderApple] = NewApple(cfg.Apple)
	}
	if cfg.VK.ClientID != "" {
		r.providers[domain.ProviderVK] = NewVK(cfg.VK)
	}
	return r
}

// Get resolves a provider by name.
func (r *Registry) Get(name string) (IdentityProvider, error) {
	provider, ok := r.providers[domain.AuthProvider(name)]
	if !ok {
		return nil, fmt.Errorf("oauth provider %q not configured", name)
	}
	return provider, nil
}
