package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, dob, email, password_hash, email_verified, google_id, profile_image_url, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var googleID, profileImageURL sql.NullString
	err := row.Scan(
		&u.ID, &u.Name, &u.DOB, &u.Email, &u.PasswordHash, &u.EmailVerified,
		&googleID, &profileImageURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.GoogleID = mapNullString(googleID)
	u.ProfileImageURL = mapNullString(profileImageURL)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = ?`, googleID)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, dob, email, password_hash, email_verified, google_id, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.DOB, u.Email, u.PasswordHash, u.EmailVerified,
		mapStringNull(u.GoogleID), mapStringNull(u.ProfileImageURL), now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) LinkGoogleAccount(ctx context.Context, userID, googleID, profileImageURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET google_id = ?,
		    profile_image_url = COALESCE(?, profile_image_url),
		    updated_at = ?
		WHERE id = ?`,
		googleID, mapStringNull(profileImageURL), time.Now().UTC(), userID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}
