package auth

import "github.com/ezzshop/ezzshop-backend/internal/users"

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResponse carries the new account and its verification token. The
// token travels back to the caller for delivery; no mailer is wired in.
type RegisterResponse struct {
	User              users.UserDTO `json:"user"`
	VerificationToken string        `json:"verificationToken"`
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResponse carries the minted JWT and the authenticated user.
type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	User        users.UserDTO `json:"user"`
}

// ResetPasswordInput redeems a reset token for a new password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}
