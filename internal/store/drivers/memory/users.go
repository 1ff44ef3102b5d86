package memory

import (
	"context"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.emails[email]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return r.s.users[id], nil
}

func (r *usersRepo) GetUserByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.googleIDs[googleID]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return r.s.users[id], nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[u.Email]; taken {
		return store.ErrAlreadyExists
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.s.users[u.ID] = u
	r.s.emails[u.Email] = u.ID
	if u.GoogleID != "" {
		r.s.googleIDs[u.GoogleID] = u.ID
	}
	return nil
}

func (r *usersRepo) LinkGoogleAccount(ctx context.Context, userID, googleID, profileImageURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return store.ErrNotFound
	}

	u.GoogleID = googleID
	if profileImageURL != "" {
		u.ProfileImageURL = profileImageURL
	}
	u.UpdatedAt = time.Now().UTC()

	r.s.users[userID] = u
	r.s.googleIDs[googleID] = userID
	return nil
}
