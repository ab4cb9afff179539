package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/spec-kit/tryon-service/internal/config"
	"github.com/spec-kit/tryon-service/internal/domain"
)

const vkUsersGetURL = "https://api.vk.com/method/users.get"

// VK implements IdentityProvider against VKontakte OAuth. VK returns the
// email in the token response rather than the profile API.
type VK struct {
	conf *oauth2.Config
}

// NewVK builds the adapter.
func NewVK(cfg config.OAuthProviderConfig) *VK {
	return &VK{conf: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://oauth.vk.com/authorize",
			TokenURL: "https://oauth.vk.com/access_token",
		},
	}}
}

// Name identifies the provider.
func (v *VK) Name() domain.AuthProvider { return domain.ProviderVK }

// AuthURL returns the consent page URL.
func (v *VK) AuthURL(state string) string {
	return v.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for the user's profile.
func (v *VK) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := v.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("vk code exchange: %w", err)
	}

	email, _ := token.Extra("email").(string)
	if email == "" {
		return nil, fmt.Errorf("no email provided by vk")
	}
	userID := fmt.Sprintf("%v", token.Extra("user_id"))

	query := url.Values{
		"v":            {"5.131"},
		"access_token": {token.AccessToken},
	}
	resp, err := v.conf.Client(ctx, token).Get(vkUsersGetURL + "?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("vk users.get: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Response []struct {
			ID        int64  `json:"id"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"response"`
	}
	fullName := "User"
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && len(payload.Response) > 0 {
		person := payload.Response[0]
		fullName = strings.TrimSpace(person.FirstName + " " + person.LastName)
		if userID == "" || userID == "<nil>" {
			userID = fmt.Sprintf("%d", person.ID)
		}
	}

	return &Profile{Email: email, FullName: fullName, ExternalID: userID}, nil
}
