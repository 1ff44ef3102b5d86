package domain

import "time"

// User is the identity record. Created on successful signup verification or
// on first federated login; never deleted by this service.
type User struct {
	ID              string
	Name            string
	DOB             time.Time
	Email           string // always lowercase, globally unique
	PasswordHash    string // empty for federated accounts
	EmailVerified   bool
	GoogleID        string // external identity id, empty unless linked
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
