package models

import "time"

// User is an identity record. Password material is stored only as a salted
// one-way hash. Users are created at bootstrap (first-run admin) or by an
// out-of-band provisioning path; the auth core never deletes them.
type User struct {
	ID           string
	Username     string
	Email        string
	IsActive     bool
	IsAdmin      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
