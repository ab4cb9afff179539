package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for local sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// ConfirmRequest payload for email confirmation.
type ConfirmRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ResendConfirmRequest payload for re-sending the confirmation email.
type ResendConfirmRequest struct {
	Email string `json:"email"`
}
