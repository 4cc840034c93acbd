package models

import "time"

// Admin is a back-office principal. Admins always have a password and never
// carry federated identifiers or recovery state.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
