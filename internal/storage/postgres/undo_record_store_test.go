package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

func TestUndoRecordStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUndoRecordStore(pool)

	rec := &domain.UndoRecord{
		TenantID: "tenant-1",
		Action:   domain.UndoActionAdd,
		Keywords: []domain.Keyword{
			{ID: 7, TenantID: "tenant-1", OwnerID: "owner-1", Text: "pepe", CreatedAt: 1700000000000},
		},
		RecordedAt: 1700000000500,
	}

	require.NoError(t, store.Put(ctx, rec))

	retrieved, err := store.Get(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UndoActionAdd, retrieved.Action)
	require.Len(t, retrieved.Keywords, 1)
	assert.Equal(t, "pepe", retrieved.Keywords[0].Text)
	assert.Equal(t, "owner-1", retrieved.Keywords[0].OwnerID)
	assert.Equal(t, rec.RecordedAt, retrieved.RecordedAt)
}

func TestUndoRecordStore_PutReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUndoRecordStore(pool)

	first := &domain.UndoRecord{
		TenantID:   "tenant-1",
		Action:     domain.UndoActionAdd,
		Keywords:   []domain.Keyword{{TenantID: "tenant-1", Text: "pepe"}},
		RecordedAt: 1000,
	}
	require.NoError(t, store.Put(ctx, first))

	second := &domain.UndoRecord{
		TenantID: "tenant-1",
		Action:   domain.UndoActionClear,
		Keywords: []domain.Keyword{
			{TenantID: "tenant-1", Text: "pepe"},
			{TenantID: "tenant-1", Text: "doge"},
		},
		RecordedAt: 2000,
	}
	require.NoError(t, store.Put(ctx, second))

	retrieved, err := store.Get(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UndoActionClear, retrieved.Action)
	assert.Len(t, retrieved.Keywords, 2)
}

func TestUndoRecordStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewUndoRecordStore(pool)

	_, err := store.Get(context.Background(), "tenant-missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUndoRecordStore_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewUndoRecordStore(pool)

	rec := &domain.UndoRecord{
		TenantID:   "tenant-1",
		Action:     domain.UndoActionRemove,
		Keywords:   []domain.Keyword{{TenantID: "tenant-1", Text: "pepe"}},
		RecordedAt: 1000,
	}
	require.NoError(t, store.Put(ctx, rec))
	require.NoError(t, store.Delete(ctx, "tenant-1"))

	_, err := store.Get(ctx, "tenant-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting a missing record is not an error.
	assert.NoError(t, store.Delete(ctx, "tenant-1"))
}
