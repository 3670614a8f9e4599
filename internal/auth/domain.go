package auth

import "time"

// User represents an authenticated portal account. Students and staff share
// the same account table; what they may do is decided by their roles.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
