package service

import (
	"context"
	"testing"

	"github.com/cloudnotes/cloudnotes/internal/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

func TestNotesService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := memory.NewStore()
	svc := &NotesService{Store: st}
	owner := seedAccount(t, st, "owner@x.com")
	other := seedAccount(t, st, "other@x.com")

	t.Run("list is empty, not nil, for a fresh account", func(t *testing.T) {
		notes, err := svc.List(ctx, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, notes)
		require.Empty(t, notes)
	})

	t.Run("create then read back", func(t *testing.T) {
		n, err := svc.Create(ctx, owner.ID, "  groceries  ")
		require.NoError(t, err)
		require.Equal(t, "groceries", n.Content)
		require.False(t, n.CreatedAt.IsZero())

		got, err := svc.Get(ctx, n.ID, owner.ID)
		require.NoError(t, err)
		require.Equal(t, n.ID, got.ID)

		// Another account cannot see it.
		_, err = svc.Get(ctx, n.ID, other.ID)
		require.ErrorIs(t, err, ErrNoteNotFound)
	})

	t.Run("update and delete are owner scoped", func(t *testing.T) {
		n, err := svc.Create(ctx, owner.ID, "draft")
		require.NoError(t, err)

		_, err = svc.Update(ctx, n.ID, other.ID, "hijacked")
		require.ErrorIs(t, err, ErrNoteNotFound)

		updated, err := svc.Update(ctx, n.ID, owner.ID, "final")
		require.NoError(t, err)
		require.Equal(t, "final", updated.Content)

		require.ErrorIs(t, svc.Delete(ctx, n.ID, other.ID), ErrNoteNotFound)
		require.NoError(t, svc.Delete(ctx, n.ID, owner.ID))
		require.ErrorIs(t, svc.Delete(ctx, n.ID, owner.ID), ErrNoteNotFound)
	})
}
