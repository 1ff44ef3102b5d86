package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

// UserService serves profile reads for the authenticated session.
type UserService struct {
	Store store.Store
}

// GetByID returns the account behind a session. A valid token whose account
// has disappeared yields ErrUserNotFound; callers treat that as an invalid
// session.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}
