package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

func TestBindingStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBindingStore(pool)

	binding := &domain.ChannelBinding{
		TenantID:     "tenant-1",
		Endpoint:     "https://discord.com/api/webhooks/123/abc",
		ConfiguredBy: "admin-1",
		UpdatedAt:    1700000000000,
	}
	require.NoError(t, store.Put(ctx, binding))

	retrieved, err := store.Get(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, binding.Endpoint, retrieved.Endpoint)
	assert.Equal(t, binding.ConfiguredBy, retrieved.ConfiguredBy)
	assert.Equal(t, binding.UpdatedAt, retrieved.UpdatedAt)
}

func TestBindingStore_PutOverwrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBindingStore(pool)

	require.NoError(t, store.Put(ctx, &domain.ChannelBinding{
		TenantID:     "tenant-1",
		Endpoint:     "https://discord.com/api/webhooks/123/abc",
		ConfiguredBy: "admin-1",
		UpdatedAt:    1000,
	}))
	require.NoError(t, store.Put(ctx, &domain.ChannelBinding{
		TenantID:     "tenant-1",
		Endpoint:     "https://discord.com/api/webhooks/456/def",
		ConfiguredBy: "admin-2",
		UpdatedAt:    2000,
	}))

	retrieved, err := store.Get(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.com/api/webhooks/456/def", retrieved.Endpoint)
	assert.Equal(t, "admin-2", retrieved.ConfiguredBy)
}

func TestBindingStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBindingStore(pool)

	_, err := store.Get(context.Background(), "tenant-missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBindingStore_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBindingStore(pool)

	require.NoError(t, store.Put(ctx, &domain.ChannelBinding{
		TenantID: "tenant-1",
		Endpoint: "https://discord.com/api/webhooks/123/abc",
	}))
	require.NoError(t, store.Delete(ctx, "tenant-1"))

	_, err := store.Get(ctx, "tenant-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "tenant-1"))
}
