package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/session"
	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// Sessions is the session operations the auth flow drives.
type Sessions interface {
	Login(ctx context.Context, token string, role session.Role, rememberMe bool) error
	Logout(ctx context.Context) error
}

// LoginInput is what the operator submits on the login page.
type LoginInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type loginReply struct {
	Token string `json:"token"`
	User  struct {
		Role session.Role `json:"role"`
	} `json:"user"`
}

// AuthService signs the operator in and out against the backend.
type AuthService struct {
	api      Backend
	sessions Sessions
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(api Backend, sessions Sessions, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{api: api, sessions: sessions, logger: logger.Named("auth")}
}

// Login validates the form, exchanges it for a token and records the
// credential. The returned role is the one the backend assigned.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (session.Role, error) {
	if err := validateEmail(in.Email); err != nil {
		return session.RoleUnknown, err
	}
	if in.Password == "" {
		return session.RoleUnknown, fieldError("password", "Password is required")
	}

	var reply loginReply
	if err := s.api.Post(ctx, "/auth/login", in, &reply); err != nil {
		s.logger.Info("login rejected", zap.Error(err))
		return session.RoleUnknown, upstream(err, "Login failed")
	}

	if err := s.sessions.Login(ctx, reply.Token, reply.User.Role, in.RememberMe); err != nil {
		if errors.Is(err, session.ErrEmptyToken) {
			return session.RoleUnknown, apperrors.NewUpstreamError(0, "Login failed", err)
		}
		return session.RoleUnknown, fmt.Errorf("record login: %w", err)
	}
	return reply.User.Role, nil
}

// Logout clears the credential from both stores.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
