package models

import "time"

// Submission is one service-intake form submission. The per-service field
// schemas live in the payload; this subsystem only stores and lists them
// for the admin panel.
type Submission struct {
	ID        string
	UserID    string
	Service   string
	Payload   []byte
	CreatedAt time.Time
}

// Document records an uploaded file belonging to a submission flow. The
// object itself lives in S3-compatible storage; only the key is kept here.
type Document struct {
	ID        string
	UserID    string
	ObjectKey string
	FileName  string
	CreatedAt time.Time
}
