package memory

import (
	"context"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
)

type challengesRepo struct {
	s *Store
}

func (r *challengesRepo) UpsertChallenge(ctx context.Context, c domain.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	key := challengeKey{email: c.Email, purpose: c.Purpose}
	if prior, ok := r.s.challenges[key]; ok {
		c.CreatedAt = prior.CreatedAt
	} else {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	r.s.challenges[key] = c
	return nil
}

func (r *challengesRepo) GetChallenge(ctx context.Context, email string, purpose domain.OtpPurpose) (domain.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.challenges[challengeKey{email: email, purpose: purpose}]
	if !ok {
		return domain.Challenge{}, store.ErrNotFound
	}
	return c, nil
}

func (r *challengesRepo) IncrementChallengeAttempts(ctx context.Context, id string) (domain.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, c := range r.s.challenges {
		if c.ID == id {
			c.Attempts++
			c.UpdatedAt = time.Now().UTC()
			r.s.challenges[key] = c
			return c, nil
		}
	}
	return domain.Challenge{}, store.ErrNotFound
}

func (r *challengesRepo) DeleteChallenge(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, c := range r.s.challenges {
		if c.ID == id {
			delete(r.s.challenges, key)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	for key, c := range r.s.challenges {
		if c.Expired(now) {
			delete(r.s.challenges, key)
		}
	}
	return nil
}
