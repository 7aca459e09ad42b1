package dto

import (
	"time"

	"github.com/spec-kit/cms-console/internal/session"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest carries the mailed code.
type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

// ResetPasswordRequest sets the new password.
type ResetPasswordRequest struct {
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// SessionResponse describes the current operator.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Role          session.Role `json:"role"`
	Subject       string       `json:"subject,omitempty"`
	Email         string       `json:"email,omitempty"`
	ExpiresAt     time.Time    `json:"expires_at,omitzero"`
}
