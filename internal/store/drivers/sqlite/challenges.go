package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
)

type challengesRepo struct {
	db *sql.DB
}

const challengeColumns = `id, email, purpose, code_hash, expires_at, attempts, name, dob, created_at, updated_at`

func scanChallenge(scanner interface{ Scan(...any) error }) (domain.Challenge, error) {
	var c domain.Challenge
	var name sql.NullString
	var dob sql.NullTime
	err := scanner.Scan(
		&c.ID, &c.Email, &c.Purpose, &c.CodeHash, &c.ExpiresAt, &c.Attempts,
		&name, &dob, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}
	c.Name = mapNullString(name)
	c.DOB = mapNullTimePtr(dob)
	return c, nil
}

// UpsertChallenge is a single INSERT .. ON CONFLICT statement so two
// concurrent issue calls cannot leave two live challenges for the same
// (email, purpose).
func (r *challengesRepo) UpsertChallenge(ctx context.Context, c domain.Challenge) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (id, email, purpose, code_hash, expires_at, attempts, name, dob, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email, purpose) DO UPDATE SET
			id         = excluded.id,
			code_hash  = excluded.code_hash,
			expires_at = excluded.expires_at,
			attempts   = excluded.attempts,
			name       = excluded.name,
			dob        = excluded.dob,
			updated_at = excluded.updated_at`,
		c.ID, c.Email, c.Purpose, c.CodeHash, c.ExpiresAt, c.Attempts,
		mapStringNull(c.Name), mapOptionalTime(c.DOB), now, now,
	)
	return err
}

func (r *challengesRepo) GetChallenge(ctx context.Context, email string, purpose domain.OtpPurpose) (domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM otp_challenges WHERE email = ? AND purpose = ?`,
		email, purpose,
	)
	return scanChallenge(row)
}

// IncrementChallengeAttempts bumps and reads back in one statement; parallel
// wrong guesses each observe a distinct counter value.
func (r *challengesRepo) IncrementChallengeAttempts(ctx context.Context, id string) (domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE otp_challenges
		SET attempts = attempts + 1, updated_at = ?
		WHERE id = ?
		RETURNING `+challengeColumns,
		time.Now().UTC(), id,
	)
	return scanChallenge(row)
}

func (r *challengesRepo) DeleteChallenge(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
