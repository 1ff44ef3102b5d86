package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/store"
	"github.com/cloudnotes/cloudnotes/pkg/idx"
)

var ErrNoteNotFound = errors.New("note not found")

// NotesService is the protected resource behind the session: plain CRUD,
// scoped to the authenticated owner on every operation.
type NotesService struct {
	Store store.Store
}

func (s *NotesService) Create(ctx context.Context, ownerID, content string) (domain.Note, error) {
	n := domain.Note{
		ID:      idx.New().String(),
		OwnerID: ownerID,
		Content: strings.TrimSpace(content),
	}
	if err := s.Store.Notes().CreateNote(ctx, n); err != nil {
		return domain.Note{}, fmt.Errorf("failed to create note: %w", err)
	}
	return s.Store.Notes().GetNote(ctx, n.ID, ownerID)
}

func (s *NotesService) Get(ctx context.Context, id, ownerID string) (domain.Note, error) {
	n, err := s.Store.Notes().GetNote(ctx, id, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Note{}, ErrNoteNotFound
	}
	return n, err
}

func (s *NotesService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	notes, err := s.Store.Notes().ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, nil
}

func (s *NotesService) Update(ctx context.Context, id, ownerID, content string) (domain.Note, error) {
	n, err := s.Store.Notes().UpdateNoteContent(ctx, id, ownerID, strings.TrimSpace(content))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Note{}, ErrNoteNotFound
	}
	return n, err
}

func (s *NotesService) Delete(ctx context.Context, id, ownerID string) error {
	err := s.Store.Notes().DeleteNote(ctx, id, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}
