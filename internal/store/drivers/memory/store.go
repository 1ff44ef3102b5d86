// Package memory is the ephemeral in-process store driver. It backs tests
// and sample mode; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
)

type Store struct {
	mu sync.Mutex

	users      map[string]domain.User        // by id
	emails     map[string]string             // lowercase email -> user id
	googleIDs  map[string]string             // google id -> user id
	challenges map[challengeKey]domain.Challenge
	notes      map[string]domain.Note // by id
}

type challengeKey struct {
	email   string
	purpose domain.OtpPurpose
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		emails:     make(map[string]string),
		googleIDs:  make(map[string]string),
		challenges: make(map[challengeKey]domain.Challenge),
		notes:      make(map[string]domain.Note),
	}
}

func (s *Store) Users() store.Users           { return &usersRepo{s: s} }
func (s *Store) Challenges() store.Challenges { return &challengesRepo{s: s} }
func (s *Store) Notes() store.Notes           { return &notesRepo{s: s} }

// ApplyMigrations is a no-op; there is no schema to migrate.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }
