package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
)

type notesRepo struct {
	db *sql.DB
}

const noteColumns = `id, owner_id, content, created_at, updated_at`

func scanNote(scanner interface{ Scan(...any) error }) (domain.Note, error) {
	var n domain.Note
	err := scanner.Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.Content, now, now,
	)
	return err
}

func (r *notesRepo) GetNote(ctx context.Context, id, ownerID string) (domain.Note, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	return scanNote(row)
}

func (r *notesRepo) ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notesRepo) UpdateNoteContent(ctx context.Context, id, ownerID, content string) (domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE notes
		SET content = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
		RETURNING `+noteColumns,
		content, time.Now().UTC(), id, ownerID,
	)
	return scanNote(row)
}

func (r *notesRepo) DeleteNote(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
