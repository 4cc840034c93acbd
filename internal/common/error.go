// Package common defines shared constants and sentinel errors used across
// the client and server components. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrorDuplicate  = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Login errors. The same value is returned for an unknown email and a
	// wrong password so responses do not reveal which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token verification errors.
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrClassMismatch = errors.New("token class mismatch")

	// Password-recovery errors.
	ErrNoActiveRequest = errors.New("no active recovery request")
	ErrOTPExpired      = errors.New("otp expired")
	ErrOTPMismatch     = errors.New("incorrect otp")
)
