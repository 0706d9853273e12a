// API client for making enveloped HTTP requests to the Cinema Platform backend
package services

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

	"github.com/desertthunder/cinetx/internal/shared"
)

// TokenSource supplies the bearer token for authenticated requests.
// [session.Store] satisfies this interface; an empty token means anonymous.
type TokenSource interface {
	Token() string
}

// anonymous is the zero TokenSource used when none is provided.
type anonymous struct{}

func (anonymous) Token() string { return "" }

// APIClient performs enveloped HTTP requests against a configured base URL.
// One call per invocation, bounded by the configured timeout.
type APIClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     TokenSource
}

// NewAPIClient creates a new client for the Cinema Platform backend.
func NewAPIClient(baseURL string, timeout time.Duration, client *http.Client, tokens TokenSource) *APIClient {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if client == nil {
		client = http.DefaultClient
	}
	if tokens == nil {
		tokens = anonymous{}
	}

	return &APIClient{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: client,
		tokens:     tokens,
	}
}

// Envelope is the wrapper every API response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// Decode unmarshals the envelope's data payload into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: envelope has no data", shared.ErrMalformedResponse)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// ErrorMessages returns the envelope's error strings with any "field: "
// prefixes stripped, falling back to the envelope message.
func (e *Envelope) ErrorMessages() []string {
	if len(e.Errors) == 0 {
		if e.Message != "" {
			return []string{e.Message}
		}
		return nil
	}

	messages := make([]string, 0, len(e.Errors))
	for _, raw := range e.Errors {
		messages = append(messages, shared.StripFieldPrefix(raw))
	}
	return messages
}

// Get performs a GET request to the specified path.
func (a *APIClient) Get(ctx context.Context, path string, requiresAuth bool) (*Envelope, error) {
	return a.do(ctx, http.MethodGet, path, nil, requiresAuth)
}

// Post performs a POST request with an optional JSON body.
func (a *APIClient) Post(ctx context.Context, path string, body any, requiresAuth bool) (*Envelope, error) {
	return a.do(ctx, http.MethodPost, path, body, requiresAuth)
}

// Put performs a PUT request with an optional JSON body.
func (a *APIClient) Put(ctx context.Context, path string, body any, requiresAuth bool) (*Envelope, error) {
	return a.do(ctx, http.MethodPut, path, body, requiresAuth)
}

// Delete performs a DELETE request with an optional JSON body.
func (a *APIClient) Delete(ctx context.Context, path string, body any, requiresAuth bool) (*Envelope, error) {
	return a.do(ctx, http.MethodDelete, path, body, requiresAuth)
}

// do performs one bounded HTTP round trip and resolves the response envelope.
//
// When requiresAuth is set but no token is present the request still goes out
// without an Authorization header; rejecting it is the server's job.
func (a *APIClient) do(ctx context.Context, method, path string, body any, requiresAuth bool) (*Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if requiresAuth {
		if token := a.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s: %s %s", shared.ErrTimeout, a.timeout, method, path)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s: %s %s", shared.ErrTimeout, a.timeout, method, path)
		}
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}

	return a.resolve(resp, raw)
}

// resolve applies the envelope rules: a JSON body is parsed and its success
// flag honored; a non-JSON 2xx yields an empty success envelope; everything
// else fails with the envelope message or a generic fallback.
func (a *APIClient) resolve(resp *http.Response, raw []byte) (*Envelope, error) {
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	contentType := resp.Header.Get("Content-Type")

	if !strings.Contains(contentType, "application/json") {
		if ok {
			return &Envelope{Success: true, Message: "Success"}, nil
		}
		return nil, fmt.Errorf("%w: status %d", statusSentinel(resp.StatusCode), resp.StatusCode)
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	if !ok || !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		if len(envelope.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(envelope.ErrorMessages(), "\n"))
		}
		return nil, fmt.Errorf("%w: %s", statusSentinel(resp.StatusCode), message)
	}

	return &envelope, nil
}

// statusSentinel maps an HTTP status to the matching error sentinel.
func statusSentinel(status int) error {
	switch status {
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrAuthFailed
	default:
		return shared.ErrServer
	}
}
