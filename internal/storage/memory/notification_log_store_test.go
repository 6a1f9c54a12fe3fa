package memory

import (
	"context"
	"errors"
	"testing"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

func TestNotificationLogStore_InsertOnce(t *testing.T) {
	store := NewNotificationLogStore()
	ctx := context.Background()

	rec := &domain.NotificationRecord{
		Address:     "addr1",
		TenantID:    "guild1",
		KeywordText: "blue collar",
		NotifiedAt:  1000,
	}

	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := store.Insert(ctx, rec)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey on second insert, got %v", err)
	}
}

func TestNotificationLogStore_TupleScoping(t *testing.T) {
	store := NewNotificationLogStore()
	ctx := context.Background()

	base := domain.NotificationRecord{
		Address:     "addr1",
		TenantID:    "guild1",
		KeywordText: "moon",
	}

	if err := store.Insert(ctx, &base); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Different tenant, same address and keyword: distinct tuple.
	other := base
	other.TenantID = "guild2"
	if err := store.Insert(ctx, &other); err != nil {
		t.Errorf("different tenant should insert: %v", err)
	}

	// Different keyword under the same tenant: distinct tuple.
	other = base
	other.KeywordText = "moon shot"
	if err := store.Insert(ctx, &other); err != nil {
		t.Errorf("different keyword should insert: %v", err)
	}

	// Different address: distinct tuple.
	other = base
	other.Address = "addr2"
	if err := store.Insert(ctx, &other); err != nil {
		t.Errorf("different address should insert: %v", err)
	}
}
