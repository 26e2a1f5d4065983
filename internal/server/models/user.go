// Package models defines server-side persistence models.
package models

import "time"

// User is an account record. PasswordHash is a bcrypt hash and never leaves
// the server.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
