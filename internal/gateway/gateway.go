// Package gateway is the HTTP client for the PromptVault backend. It
// translates high-level operations into authenticated REST calls and
// normalizes the backend's {success, data, message} envelope into
// plain values and typed errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promptvault/internal/logging"
	"promptvault/internal/session"
)

const userAgent = "promptvault-cli/1.0"

// APIError is a backend-reported logical failure (success:false). The
// message from the payload is surfaced verbatim.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend reported failure (HTTP %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// envelope is the uniform backend response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client calls the backend REST API. The session is read for the
// bearer token on every authenticated call and never written.
type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Session
	log     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a gateway for the backend at baseURL.
func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		sess:    sess,
		log:     logging.Get(logging.CategoryGateway),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one backend call and returns the envelope's data field.
// Missing auth aborts locally before any request is sent. Transport
// failures and backend-reported failures come back as errors with the
// original state untouched; nothing is retried.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body interface{}, authed bool) (json.RawMessage, error) {
	var token string
	if authed {
		var err error
		token, err = c.sess.Token()
		if err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("%s %s failed: %v", method, path, err)
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}
	c.log.Debug("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%s: backend returned %s", op, resp.Status)
		}
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	if !env.Success {
		return nil, &APIError{Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}
