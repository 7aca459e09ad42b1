package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/guard"
	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// ResetStep is the position in the password reset flow.
type ResetStep int

const (
	StepEmail ResetStep = iota + 1
	StepOTP
	StepPassword
)

// ResetResult reports the outcome of one reset step.
type ResetResult struct {
	Step    ResetStep `json:"step"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
	// Next is set once the flow finishes.
	Next string `json:"next,omitempty"`
}

// PasswordReset drives the email, OTP, new password sequence. A step only
// advances when the backend answers success.
type PasswordReset struct {
	api    Backend
	logger *zap.Logger

	mu    sync.Mutex
	step  ResetStep
	email string
}

// NewPasswordReset starts at the email step.
func NewPasswordReset(api Backend, logger *zap.Logger) *PasswordReset {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordReset{api: api, logger: logger.Named("password_reset"), step: StepEmail}
}

// Step returns the current step.
func (p *PasswordReset) Step() ResetStep {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step
}

// Restart returns to the email step.
func (p *PasswordReset) Restart() {
	p.mu.Lock()
	p.step, p.email = StepEmail, ""
	p.mu.Unlock()
}

// RequestOTP asks the backend to mail a one-time code. It may be called
// again from any step to restart with a different address.
func (p *PasswordReset) RequestOTP(ctx context.Context, email string) (ResetResult, error) {
	if err := validateEmail(email); err != nil {
		return ResetResult{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var reply Envelope
	if err := p.api.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, &reply); err != nil {
		return ResetResult{}, upstream(err, "Something went wrong. Please try again.")
	}
	if reply.Success {
		p.step, p.email = StepOTP, email
	}
	return ResetResult{Step: p.step, Success: reply.Success, Message: reply.Message}, nil
}

// VerifyOTP checks the code mailed in the previous step.
func (p *PasswordReset) VerifyOTP(ctx context.Context, otp string) (ResetResult, error) {
	if err := validateOTP(otp); err != nil {
		return ResetResult{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.step != StepOTP {
		return ResetResult{}, outOfOrder(p.step)
	}

	var reply Envelope
	body := map[string]string{"email": p.email, "otp": otp}
	if err := p.api.Post(ctx, "/auth/verify-otp", body, &reply); err != nil {
		return ResetResult{}, upstream(err, "Error verifying OTP. Please try again.")
	}
	if reply.Success {
		p.step = StepPassword
	}
	return ResetResult{Step: p.step, Success: reply.Success, Message: reply.Message}, nil
}

// Reset sets the new password and ends the flow.
func (p *PasswordReset) Reset(ctx context.Context, newPassword, confirm string) (ResetResult, error) {
	if err := validateNewPassword(newPassword, confirm); err != nil {
		return ResetResult{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.step != StepPassword {
		return ResetResult{}, outOfOrder(p.step)
	}

	var reply Envelope
	body := map[string]string{
		"email":              p.email,
		"newPassword":        newPassword,
		"confirmNewPassword": confirm,
	}
	if err := p.api.Post(ctx, "/auth/reset-password", body, &reply); err != nil {
		return ResetResult{}, upstream(err, "Error resetting password. Please try again.")
	}
	res := ResetResult{Step: p.step, Success: reply.Success, Message: reply.Message}
	if reply.Success {
		p.logger.Info("password reset completed")
		p.step, p.email = StepEmail, ""
		res.Step, res.Next = StepEmail, guard.PathLogin
	}
	return res, nil
}

func outOfOrder(current ResetStep) error {
	return apperrors.NewValidationError("password reset step out of order", map[string]any{"step": int(current)})
}
