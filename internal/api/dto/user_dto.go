package dto

import "github.com/spec-kit/tryon-service/internal/domain"

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Provider       string `json:"provider"`
	Tier           string `json:"tier"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		Provider:       string(user.Provider),
		Tier:           string(user.Tier),
		EmailConfirmed: user.EmailConfirmed,
	}
}
