// Package session keeps the client's authentication state. Tokens are held
// per principal class in the local metadata store, so a user login and an
// admin login can coexist without displacing each other.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/repositories/metadata"
)

// Class mirrors the principal classes the server issues tokens for.
type Class string

const (
	ClassUser  Class = "user"
	ClassAdmin Class = "admin"
)

const (
	userTokenKey  = "user_token"
	adminTokenKey = "admin_token"
)

// timeNow is a test seam for the clock.
var timeNow = time.Now

func tokenKey(class Class) string {
	if class == ClassAdmin {
		return adminTokenKey
	}
	return userTokenKey
}

// claims is the client-side view of the token payload. The signature is not
// verified here; only the server can do that. The client reads the claims to
// know who it is acting as and when the token lapses.
type claims struct {
	PrincipalID string `json:"pid"`
	Class       string `json:"cls"`
	jwt.RegisteredClaims
}

// Principal is a summary of the logged-in identity, decoded from the token.
type Principal struct {
	ID    string
	Class Class
}

// Session persists one token per principal class.
type Session struct {
	store metadata.Repository
}

func NewSession(store metadata.Repository) *Session {
	return &Session{store: store}
}

// SetToken stores a freshly issued token for the given class, replacing any
// previous one of the same class.
func (s *Session) SetToken(ctx context.Context, class Class, token string) error {
	return s.store.Set(ctx, tokenKey(class), []byte(token))
}

// Token returns the stored token for the class, or "" when none is held.
func (s *Session) Token(ctx context.Context, class Class) (string, error) {
	v, err := s.store.Get(ctx, tokenKey(class))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Logout drops the token for the class. Logging out when not logged in is
// not an error.
func (s *Session) Logout(ctx context.Context, class Class) error {
	return s.store.Delete(ctx, tokenKey(class))
}

// IsAuthenticated reports whether a token for the class is held and has not
// lapsed. A token expiring exactly now counts as lapsed. Malformed tokens
// read as unauthenticated.
func (s *Session) IsAuthenticated(ctx context.Context, class Class) bool {
	tok, err := s.Token(ctx, class)
	if err != nil || tok == "" {
		return false
	}

	c, err := decodeClaims(tok)
	if err != nil {
		return false
	}
	if c.ExpiresAt == nil {
		return false
	}

	return timeNow().Before(c.ExpiresAt.Time)
}

// Principal decodes the identity behind the stored token for the class.
func (s *Session) Principal(ctx context.Context, class Class) (*Principal, error) {
	tok, err := s.Token(ctx, class)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, fmt.Errorf("not logged in")
	}

	c, err := decodeClaims(tok)
	if err != nil {
		return nil, err
	}

	return &Principal{ID: c.PrincipalID, Class: Class(c.Class)}, nil
}

func decodeClaims(tok string) (*claims, error) {
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &c); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &c, nil
}
