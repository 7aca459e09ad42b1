package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

const minPasswordLength = 8

var (
	otpPattern     = regexp.MustCompile(`^[0-9]{6}$`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func fieldError(field, message string) error {
	return apperrors.NewValidationError(message, map[string]any{"field": field})
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fieldError("email", "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fieldError("email", "Invalid email address")
	}
	return nil
}

func validateOTP(otp string) error {
	if otp == "" {
		return fieldError("otp", "OTP is required")
	}
	if !otpPattern.MatchString(otp) {
		return fieldError("otp", "OTP must be 6 digits")
	}
	return nil
}

func validateNewPassword(password, confirm string) error {
	switch {
	case password == "":
		return fieldError("newPassword", "New password is required")
	case len(password) < minPasswordLength:
		return fieldError("newPassword", "New password must be at least 8 characters long")
	case !strings.ContainsFunc(password, unicode.IsUpper):
		return fieldError("newPassword", "New password must contain at least one uppercase letter")
	case !specialPattern.MatchString(password):
		return fieldError("newPassword", "New password must contain at least one special character")
	case confirm == "":
		return fieldError("confirmNewPassword", "Confirm password is required")
	case confirm != password:
		return fieldError("confirmNewPassword", "Passwords must match")
	}
	return nil
}
