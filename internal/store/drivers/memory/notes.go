package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
)

type notesRepo struct {
	s *Store
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	r.s.notes[n.ID] = n
	return nil
}

func (r *notesRepo) GetNote(ctx context.Context, id, ownerID string) (domain.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return domain.Note{}, store.ErrNotFound
	}
	return n, nil
}

func (r *notesRepo) ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var notes []domain.Note
	for _, n := range r.s.notes {
		if n.OwnerID == ownerID {
			notes = append(notes, n)
		}
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (r *notesRepo) UpdateNoteContent(ctx context.Context, id, ownerID, content string) (domain.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return domain.Note{}, store.ErrNotFound
	}

	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	r.s.notes[id] = n
	return n, nil
}

func (r *notesRepo) DeleteNote(ctx context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(r.s.notes, id)
	return nil
}
