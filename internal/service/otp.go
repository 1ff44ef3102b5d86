package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
	"github.com/cloudnotes/cloudnotes/pkg/cryptox"
	"github.com/cloudnotes/cloudnotes/pkg/idx"
	"github.com/cloudnotes/cloudnotes/pkg/mailx"
)

const (
	// OtpTTL is how long an issued passcode stays valid.
	OtpTTL = 10 * time.Minute

	// MaxOtpAttempts is the number of wrong guesses a challenge absorbs
	// before it locks.
	MaxOtpAttempts = 5
)

var (
	ErrEmailRegistered     = errors.New("email already registered")
	ErrNoAccount           = errors.New("no account for email")
	ErrChallengeNotFound   = errors.New("no outstanding challenge")
	ErrChallengeExpired    = errors.New("challenge expired")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrInvalidCode         = errors.New("invalid code")
	ErrIncompleteChallenge = errors.New("challenge missing signup profile")
)

// OtpService runs the passcode lifecycle: issue a challenge, email the code,
// and verify submissions against the stored hash. Each (email, purpose) pair
// has at most one live challenge; issuing again replaces the previous one.
type OtpService struct {
	Store  store.Store
	Mailer mailx.Sender
	Logger *slog.Logger
}

// StartSignup issues a signup challenge for a new account. The profile
// entered at signup is staged on the challenge and only becomes a user once
// the code is verified. Fails with ErrEmailRegistered when an account
// already holds the address.
func (s *OtpService) StartSignup(ctx context.Context, email, name string, dob time.Time) error {
	email = NormalizeEmail(email)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return ErrEmailRegistered
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up email: %w", err)
	}

	return s.issue(ctx, domain.Challenge{
		Email:   email,
		Purpose: domain.PurposeSignup,
		Name:    strings.TrimSpace(name),
		DOB:     &dob,
	})
}

// StartLogin issues a login challenge for an existing account. Fails with
// ErrNoAccount when no account holds the address.
func (s *OtpService) StartLogin(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoAccount
	}
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}

	return s.issue(ctx, domain.Challenge{
		Email:   email,
		Purpose: domain.PurposeLogin,
	})
}

// issue generates a fresh code, persists its hash, and emails the plaintext.
// Delivery failure is logged but does not fail the request: the challenge is
// already live, and the client can always request a new code.
func (s *OtpService) issue(ctx context.Context, c domain.Challenge) error {
	code, err := cryptox.GenerateCode()
	if err != nil {
		return err
	}
	hash, err := cryptox.HashCode(code)
	if err != nil {
		return err
	}

	c.ID = idx.New().String()
	c.CodeHash = hash
	c.ExpiresAt = time.Now().UTC().Add(OtpTTL)
	c.Attempts = 0

	if err := s.Store.Challenges().UpsertChallenge(ctx, c); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	if err := s.Mailer.Send(mailx.OtpEmail(c.Email, code)); err != nil {
		s.Logger.Error("failed to send verification code",
			"email", c.Email,
			"purpose", c.Purpose,
			"error", err,
		)
	}

	return nil
}

// VerifySignup consumes a signup challenge and creates the account from the
// staged profile. The created user is returned so the caller can establish a
// session.
func (s *OtpService) VerifySignup(ctx context.Context, email, code string) (domain.User, error) {
	email = NormalizeEmail(email)

	c, err := s.consume(ctx, email, domain.PurposeSignup, code)
	if err != nil {
		return domain.User{}, err
	}
	if c.Name == "" || c.DOB == nil {
		return domain.User{}, ErrIncompleteChallenge
	}

	u := domain.User{
		ID:            idx.New().String(),
		Name:          c.Name,
		DOB:           *c.DOB,
		Email:         email,
		EmailVerified: true,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailRegistered
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// VerifyLogin consumes a login challenge and returns the account it belongs
// to.
func (s *OtpService) VerifyLogin(ctx context.Context, email, code string) (domain.User, error) {
	email = NormalizeEmail(email)

	if _, err := s.consume(ctx, email, domain.PurposeLogin, code); err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNoAccount
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// consume validates a submitted code against the live challenge. The checks
// run in a fixed order: missing, then expired, then locked, then the hash
// comparison. An expired challenge never has its attempt counter bumped, and
// a matching code deletes the challenge so it cannot be replayed.
func (s *OtpService) consume(ctx context.Context, email string, purpose domain.OtpPurpose, code string) (domain.Challenge, error) {
	c, err := s.Store.Challenges().GetChallenge(ctx, email, purpose)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Challenge{}, ErrChallengeNotFound
	}
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("failed to load challenge: %w", err)
	}

	if c.Expired(time.Now().UTC()) {
		return domain.Challenge{}, ErrChallengeExpired
	}
	if c.Attempts >= MaxOtpAttempts {
		return domain.Challenge{}, ErrTooManyAttempts
	}

	if !cryptox.CompareCode(c.CodeHash, code) {
		updated, err := s.Store.Challenges().IncrementChallengeAttempts(ctx, c.ID)
		if errors.Is(err, store.ErrNotFound) {
			// Challenge was consumed or replaced mid-flight.
			return domain.Challenge{}, ErrChallengeNotFound
		}
		if err != nil {
			return domain.Challenge{}, fmt.Errorf("failed to record attempt: %w", err)
		}
		if updated.Attempts >= MaxOtpAttempts {
			return domain.Challenge{}, ErrTooManyAttempts
		}
		return domain.Challenge{}, ErrInvalidCode
	}

	// Single use: only the caller that wins the delete gets through.
	if err := s.Store.Challenges().DeleteChallenge(ctx, c.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Challenge{}, ErrChallengeNotFound
		}
		return domain.Challenge{}, fmt.Errorf("failed to consume challenge: %w", err)
	}
	return c, nil
}

// NormalizeEmail lowercases and trims an address. All store lookups and
// challenge keys use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
