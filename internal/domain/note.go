package domain

import "time"

// Note is a personal text note, owned by exactly one user. All access is
// owner-scoped.
type Note struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
