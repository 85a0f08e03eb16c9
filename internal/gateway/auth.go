package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"promptvault/internal/vault"
)

// LoginResult carries the token and user details issued by the
// backend. The caller establishes the session with it; the gateway
// itself never writes the session.
type LoginResult struct {
	Token    string
	Username string
	Email    string
}

// User are the authenticated user's details.
type User struct {
	Username string
	Email    string
}

// authEnvelope is the flat response shape of the auth endpoints: user
// fields sit beside success rather than under data.
type authEnvelope struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// doAuth posts credentials to an unauthenticated auth endpoint and
// decodes the flat envelope.
func (c *Client) doAuth(ctx context.Context, op, path string, body interface{}) (authEnvelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return authEnvelope{}, fmt.Errorf("%s: encoding request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return authEnvelope{}, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("POST %s failed: %v", path, err)
		return authEnvelope{}, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return authEnvelope{}, fmt.Errorf("%s: reading response: %w", op, err)
	}
	c.log.Debug("POST %s -> %d (%s)", path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	var env authEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return authEnvelope{}, fmt.Errorf("%s: backend returned %s", op, resp.Status)
		}
		return authEnvelope{}, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	if !env.Success {
		return authEnvelope{}, &APIError{Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	env, err := c.doAuth(ctx, "login", "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	if env.Token == "" {
		return LoginResult{}, fmt.Errorf("login: backend returned no token")
	}
	return LoginResult{Token: env.Token, Username: env.Username, Email: env.Email}, nil
}

// Register creates an account and returns a token when the backend
// issues one immediately (some deployments require a separate login).
func (c *Client) Register(ctx context.Context, username, email, password string) (LoginResult, error) {
	env, err := c.doAuth(ctx, "register", "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: env.Token, Username: env.Username, Email: env.Email}, nil
}

// CurrentUser fetches the authenticated user's profile. The auth
// endpoints return user fields beside success, not under data, so the
// shared envelope path does not apply here.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	token, err := c.sess.Token()
	if err != nil {
		return User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("current user: building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("current user: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return User{}, fmt.Errorf("current user: reading response: %w", err)
	}

	var env authEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return User{}, fmt.Errorf("current user: backend returned %s", resp.Status)
		}
		return User{}, fmt.Errorf("current user: decoding response: %w", err)
	}
	if !env.Success {
		return User{}, &APIError{Op: "current user", Status: resp.StatusCode, Message: env.Message}
	}
	return User{Username: env.Username, Email: env.Email}, nil
}

// compile-time check that Client satisfies the workspace's view of it.
var _ vault.Gateway = (*Client)(nil)
