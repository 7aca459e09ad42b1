package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-console/internal/api/dto"
	"github.com/spec-kit/cms-console/internal/guard"
	"github.com/spec-kit/cms-console/internal/service"
	"github.com/spec-kit/cms-console/internal/session"
)

// SessionView is the read side of the session the auth endpoints expose.
type SessionView interface {
	State() session.Credential
	Claims() (session.Claims, error)
}

// AuthHandler exposes login, logout and password reset.
type AuthHandler struct {
	auth     *service.AuthService
	reset    *service.PasswordReset
	sessions SessionView
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService, reset *service.PasswordReset, sessions SessionView) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset, sessions: sessions}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"role": role, "next": guard.PathRoot}})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"next": guard.PathLogin}})
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	cred := h.sessions.State()
	resp := dto.SessionResponse{Authenticated: cred.Authenticated(), Role: cred.Role}
	if claims, err := h.sessions.Claims(); err == nil {
		resp.Subject, resp.Email, resp.ExpiresAt = claims.Subject, claims.Email, claims.ExpiresAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	res, err := h.reset.RequestOTP(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	res, err := h.reset.VerifyOTP(c.UserContext(), req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	res, err := h.reset.Reset(c.UserContext(), req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}
