package domain

import "time"

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
	ProviderApple    AuthProvider = "apple"
	ProviderVK       AuthProvider = "vk"
)

// SubscriptionTier gates access to paid features.
type SubscriptionTier string

const (
	TierUnpaid SubscriptionTier = "unpaid"
	TierPaid   SubscriptionTier = "paid"
	TierBanned SubscriptionTier = "banned"
)

// User is the account aggregate. Email is globally unique regardless of
// provider; PasswordHash is empty for pure social accounts.
type User struct {
	ID             string
	FullName       string
	Email          string
	PasswordHash   string
	Provider       AuthProvider
	ProviderID     string
	Tier           SubscriptionTier
	EmailConfirmed bool
	ConfirmToken   *string
	ConfirmExpires *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Banned reports whether the account must be rejected at the auth gate.
func (u *User) Banned() bool {
	return u.Tier == TierBanned
}

// RequiresConfirmation reports whether login must be blocked until the
// email is confirmed. Social accounts are auto-confirmed.
func (u *User) RequiresConfirmation() bool {
	return u.Provider == ProviderLocal && !u.EmailConfirmed
}
