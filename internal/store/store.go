package store

import (
	"context"
	"errors"

	"github.com/cloudnotes/cloudnotes/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. The challenge operations are deliberately atomic primitives:
// concurrency correctness of the OTP flow reduces entirely to them, so
// drivers must not implement them as read-then-write.
type Store interface {
	Users() Users
	Challenges() Challenges
	Notes() Notes

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by lowercase email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByGoogleID returns a user by linked external identity id.
	GetUserByGoogleID(ctx context.Context, googleID string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// LinkGoogleAccount attaches an external identity id (and optionally a
	// profile image) to an existing user and bumps updated_at.
	LinkGoogleAccount(ctx context.Context, userID, googleID, profileImageURL string) error
}

type Challenges interface {
	// UpsertChallenge atomically inserts or fully replaces the challenge
	// for (email, purpose). Replacing invalidates any previously sent code.
	UpsertChallenge(ctx context.Context, c domain.Challenge) error

	// GetChallenge returns the outstanding challenge for (email, purpose).
	GetChallenge(ctx context.Context, email string, purpose domain.OtpPurpose) (domain.Challenge, error)

	// IncrementChallengeAttempts atomically bumps the attempt counter and
	// returns the updated record, so two parallel wrong guesses cannot both
	// observe the same count.
	IncrementChallengeAttempts(ctx context.Context, id string) (domain.Challenge, error)

	// DeleteChallenge removes a consumed challenge (single-use semantics).
	DeleteChallenge(ctx context.Context, id string) error

	// DeleteExpiredChallenges is housekeeping; expired challenges are
	// otherwise only replaced when a new one is issued.
	DeleteExpiredChallenges(ctx context.Context) error
}

type Notes interface {
	// CreateNote inserts a new note.
	CreateNote(ctx context.Context, n domain.Note) error

	// GetNote returns a note only if it belongs to ownerID.
	GetNote(ctx context.Context, id, ownerID string) (domain.Note, error)

	// ListNotesByOwner returns all notes for a user, newest first.
	ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)

	// UpdateNoteContent replaces a note's content if owned by ownerID and
	// returns the updated note.
	UpdateNoteContent(ctx context.Context, id, ownerID, content string) (domain.Note, error)

	// DeleteNote removes a note if owned by ownerID.
	DeleteNote(ctx context.Context, id, ownerID string) error
}
