package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/spec-kit/cms-console/internal/apiclient"
	apperrors "github.com/spec-kit/cms-console/pkg/util"
)

// Backend is the slice of the API client the services use.
type Backend interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Envelope is the backend's usual `{success, message, data}` reply.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// upstream converts a backend failure into the error the console shows.
// Errors that already forced a navigation pass through untouched so the
// HTTP layer can redirect.
func upstream(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Redirect != "" {
			return err
		}
		return apperrors.NewUpstreamError(apiErr.Status, apiclient.Message(err, fallback), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewUpstreamError(http.StatusBadGateway, fallback, err)
}
