package token

import (
	"errors"
	"testing"
	"time"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
)

func TestIssueAndVerify_Success(t *testing.T) {
	secret := []byte("super-secret")
	principalID := "user-123"

	tok, err := Issue(principalID, ClassUser, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	gotID, err := Verify(tok, ClassUser, secret)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if gotID != principalID {
		t.Fatalf("principal id mismatch: got %q want %q", gotID, principalID)
	}
}

func TestVerify_ClassMismatch(t *testing.T) {
	secret := []byte("secret")

	userTok, err := Issue("u1", ClassUser, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	adminTok, err := Issue("a1", ClassAdmin, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := Verify(userTok, ClassAdmin, secret); !errors.Is(err, common.ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch for user token on admin check, got %v", err)
	}
	if _, err := Verify(adminTok, ClassUser, secret); !errors.Is(err, common.ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch for admin token on user check, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	secret := []byte("secret")

	tok, err := Issue("u1", ClassUser, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := Verify(tok, ClassUser, secret); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	// A token checked at exactly its expiry instant must already be expired.
	secret := []byte("secret")
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	origNow := timeNow
	defer func() { timeNow = origNow }()

	timeNow = func() time.Time { return issued }
	tok, err := Issue("u1", ClassUser, secret, ttl)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	timeNow = func() time.Time { return issued.Add(ttl) }
	if _, err := Verify(tok, ClassUser, secret); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at exact expiry, got %v", err)
	}

	timeNow = func() time.Time { return issued.Add(ttl - time.Second) }
	if _, err := Verify(tok, ClassUser, secret); err != nil {
		t.Fatalf("expected valid token just before expiry, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := Issue("u1", ClassUser, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := Verify(tok, ClassUser, []byte("wrong-secret")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	if _, err := Verify("not.a.jwt", ClassUser, []byte("k")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
