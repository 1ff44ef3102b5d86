package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
	"github.com/cloudnotes/cloudnotes/pkg/idx"
)

// defaultFederatedDOB is used for accounts created from a federated profile,
// which carries no date of birth. Users can correct it later.
var defaultFederatedDOB = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// FederatedProfile is the identity asserted by the external provider after a
// successful OAuth exchange.
type FederatedProfile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// FederationService maps external identities onto local accounts.
type FederationService struct {
	Store store.Store
}

// Resolve finds or creates the local account for a federated profile. The
// order matters: an existing link wins, then an account under the same email
// gets linked, and only then is a fresh account created. Federated emails
// arrive provider-verified, so new accounts start verified and linking never
// requires a passcode.
func (s *FederationService) Resolve(ctx context.Context, p FederatedProfile) (domain.User, error) {
	email := NormalizeEmail(p.Email)

	u, err := s.Store.Users().GetUserByGoogleID(ctx, p.GoogleID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("failed to look up linked account: %w", err)
	}

	u, err = s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		if err := s.Store.Users().LinkGoogleAccount(ctx, u.ID, p.GoogleID, p.Picture); err != nil {
			return domain.User{}, fmt.Errorf("failed to link account: %w", err)
		}
		return s.Store.Users().GetUserByID(ctx, u.ID)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("failed to look up email: %w", err)
	}

	u = domain.User{
		ID:              idx.New().String(),
		Name:            p.Name,
		DOB:             defaultFederatedDOB,
		Email:           email,
		EmailVerified:   true,
		GoogleID:        p.GoogleID,
		ProfileImageURL: p.Picture,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent signup for the same email;
			// fall back to linking that account.
			existing, lookupErr := s.Store.Users().GetUserByEmail(ctx, email)
			if lookupErr != nil {
				return domain.User{}, fmt.Errorf("failed to resolve raced account: %w", lookupErr)
			}
			if err := s.Store.Users().LinkGoogleAccount(ctx, existing.ID, p.GoogleID, p.Picture); err != nil {
				return domain.User{}, fmt.Errorf("failed to link account: %w", err)
			}
			return s.Store.Users().GetUserByID(ctx, existing.ID)
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}
