// Package api is the HTTP client for the advisory backend. It speaks the
// JSON envelope the server uses and surfaces server-provided messages
// verbatim so the shell can show them to the user.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
)

// Error carries the failure shape of a server reply.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Principal is the authenticated profile returned by the me endpoint.
type Principal struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

type envelope struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do issues a JSON request and decodes the envelope. A reply with
// success=false is converted into an *Error preserving the server message.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode server reply: %w", err)
	}

	if !env.Success {
		return nil, &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/register", "",
		map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/admin/login", "",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

// FederatedCallback completes a third-party login with the exchange code
// and returns the first-party session token.
func (c *Client) FederatedCallback(ctx context.Context, code string) (string, error) {
	env, err := c.do(ctx, http.MethodGet,
		"/api/auth/google/callback?code="+url.QueryEscape(code), "", nil)
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

func (c *Client) RequestOTP(ctx context.Context, email string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", "",
		map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", "",
		map[string]string{"email": email, "otp": otp, "newPassword": newPassword})
	return err
}

func (c *Client) Me(ctx context.Context, bearer string) (*Principal, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/me", bearer, nil)
	if err != nil {
		return nil, err
	}

	var p Principal
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}
