// Package apiclient is the console's single gateway to the CMS backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/session"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"

	fallbackMessage = "Something went wrong. Please try again."
)

// PathServiceUnavailable is where a 503 from the backend sends the operator.
const PathServiceUnavailable = "/error/503"

// CredentialSource yields the credential to attach to a request.
type CredentialSource interface {
	Stored(ctx context.Context) (session.Credential, error)
}

// Navigator performs a full-page navigation.
type Navigator interface {
	Navigate(path string)
}

// Recorder receives one call per completed backend exchange.
type Recorder interface {
	RecordUpstream(method string, status int)
}

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
	// Redirect is set when the status forced a navigation.
	Redirect string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Options configure a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	// Redirects maps error statuses to forced navigations. Nil means the
	// default table, which only covers 503.
	Redirects map[int]string
	Navigator Navigator
	Recorder  Recorder
	Logger    *zap.Logger
}

// Client attaches the operator's bearer token to every call and turns
// selected error statuses into forced navigations.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     CredentialSource
	redirects map[int]string
	nav       Navigator
	rec       Recorder
	logger    *zap.Logger
}

// New builds a Client.
func New(creds CredentialSource, opts Options) *Client {
	redirects := opts.Redirects
	if redirects == nil {
		redirects = map[int]string{http.StatusServiceUnavailable: PathServiceUnavailable}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		creds:     creds,
		redirects: redirects,
		nav:       opts.Navigator,
		rec:       opts.Recorder,
		logger:    logger.Named("apiclient"),
	}
}

// Get decodes the JSON response of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one request. A nil out discards the response body.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.rec != nil {
		c.rec.RecordUpstream(method, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return c.failure(req, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) authorize(req *http.Request) error {
	req.Header.Set(headerRequestID, uuid.NewString())
	cred, err := c.creds.Stored(req.Context())
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if cred.Authenticated() {
		req.Header.Set(headerAuthorization, "Bearer "+cred.Token)
	}
	return nil
}

func (c *Client) failure(req *http.Request, resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: readMessage(resp.Body)}

	if target, ok := c.redirects[resp.StatusCode]; ok {
		apiErr.Redirect = target
		c.logger.Warn("backend forced navigation",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("target", target),
			zap.String("request_id", req.Header.Get(headerRequestID)))
		if c.nav != nil {
			c.nav.Navigate(target)
		}
	}
	return apiErr
}

func readMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(b) == 0 {
		return fallbackMessage
	}
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return fallbackMessage
	}
	if body.Message != "" {
		return body.Message
	}
	if s, ok := body.Error.(string); ok && s != "" {
		return s
	}
	return fallbackMessage
}

// Message returns the text to show the operator for err.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != fallbackMessage {
		return apiErr.Message
	}
	return fallback
}
