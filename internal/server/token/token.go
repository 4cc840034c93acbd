// Package token issues and verifies signed session tokens for the two
// principal classes (site users and back-office admins). Tokens are
// stateless HS256 JWTs; verification never touches persistent state, so
// revocation before expiry is not possible by design of the session model.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
)

// Class identifies which principal class a token authenticates.
// A token minted for one class is never valid for endpoints of the other.
type Class string

const (
	ClassUser  Class = "user"
	ClassAdmin Class = "admin"
)

// Claims carries the registered claims plus the principal id and class.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string `json:"pid"`
	Class       Class  `json:"cls"`
}

// timeNow is a test seam for the clock.
var timeNow = time.Now

// Issue produces a signed token for the given principal, valid until
// now + ttl.
func Issue(principalID string, class Class, secretKey []byte, ttl time.Duration) (string, error) {
	now := timeNow()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PrincipalID: principalID,
		Class:       class,
	})

	return t.SignedString(secretKey)
}

// Verify checks signature and expiry and that the encoded class equals
// requiredClass. On success it returns the principal id. Failures map to
// common.ErrTokenExpired, common.ErrClassMismatch, or common.ErrInvalidToken
// (tampered, malformed, wrong algorithm). A token whose expiry equals the
// current instant is already expired.
func Verify(tokenString string, requiredClass Class, secretKey []byte) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	}, jwt.WithTimeFunc(timeNow), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !t.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Class != requiredClass {
		return "", common.ErrClassMismatch
	}

	return claims.PrincipalID, nil
}
