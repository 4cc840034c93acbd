// Package identity bridges third-party federated logins. The provider's own
// protocol is delegated entirely to the provider; this package only exchanges
// the opaque code the browser brings back for the verified profile fields
// the credential store needs.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Assertion is the verified identity extracted from a provider response.
type Assertion struct {
	SubjectID string
	Email     string
	Name      string
	AvatarURL string
}

// Provider exchanges a redirect-callback code for a verified assertion.
type Provider interface {
	Exchange(ctx context.Context, code string) (*Assertion, error)
}

// HTTPProvider posts the code to a configured exchange endpoint and decodes
// the standard subject/email/name/picture fields from the JSON response.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

func NewHTTPProvider(endpoint string) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type exchangeResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *HTTPProvider) Exchange(ctx context.Context, code string) (*Assertion, error) {
	form := url.Values{"code": {code}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider exchange: unexpected status %d", resp.StatusCode)
	}

	var body exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("provider exchange: %w", err)
	}
	if body.Sub == "" || body.Email == "" {
		return nil, fmt.Errorf("provider exchange: incomplete assertion")
	}

	return &Assertion{
		SubjectID: body.Sub,
		Email:     body.Email,
		Name:      body.Name,
		AvatarURL: body.Picture,
	}, nil
}
