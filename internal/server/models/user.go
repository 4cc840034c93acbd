package models

import (
	"database/sql"
	"time"
)

// User is a site principal. PasswordHash is empty for accounts created
// through federated login until a password is explicitly set. The OTP fields
// are populated only between a password-recovery request and its
// consumption; requesting a new code overwrites them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	GoogleID     sql.NullString
	AvatarURL    sql.NullString
	OTPCode      sql.NullString
	OTPExpiresAt sql.NullTime
	CreatedAt    time.Time
}

// HasPassword reports whether the account has a usable password login path.
func (u *User) HasPassword() bool {
	return len(u.PasswordHash) > 0
}
