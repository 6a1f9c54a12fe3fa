package keywords

import (
	"context"
	"errors"
	"testing"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage/memory"
)

func newTestService() *Service {
	svc := NewService(memory.NewKeywordStore(), memory.NewUndoRecordStore())
	ts := int64(1000)
	svc.now = func() int64 {
		ts++
		return ts
	}
	return svc
}

func TestAdd_NormalizesText(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	kw, err := svc.Add(ctx, "tenant-1", "owner-1", "  Blue-Collar BOYS  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if kw.Text != "blue collar boys" {
		t.Errorf("expected normalized text %q, got %q", "blue collar boys", kw.Text)
	}
	if kw.ID == 0 {
		t.Error("expected assigned keyword ID")
	}
}

func TestAdd_DuplicateAfterNormalization(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "pepe coin"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := svc.Add(ctx, "tenant-1", "owner-2", "PEPE_coin")
	if !errors.Is(err, ErrDuplicateKeyword) {
		t.Fatalf("expected ErrDuplicateKeyword, got %v", err)
	}
}

func TestAdd_EmptyAfterNormalization(t *testing.T) {
	svc := newTestService()

	_, err := svc.Add(context.Background(), "tenant-1", "owner-1", "!!! ---")
	if !errors.Is(err, ErrEmptyKeyword) {
		t.Fatalf("expected ErrEmptyKeyword, got %v", err)
	}
}

func TestRemove_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Remove(context.Background(), "tenant-1", "owner-1", "ghost")
	if !errors.Is(err, ErrKeywordNotFound) {
		t.Fatalf("expected ErrKeywordNotFound, got %v", err)
	}
}

func TestRemove_MatchesNormalizedForm(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "doge killer"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	deleted, err := svc.Remove(ctx, "tenant-1", "owner-1", "DOGE-Killer")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if deleted.Text != "doge killer" {
		t.Errorf("expected deleted text %q, got %q", "doge killer", deleted.Text)
	}
}

func TestClear_RequiresConfirmation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "moon"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := svc.Clear(ctx, "tenant-1", "owner-1", "confirm")
	if !errors.Is(err, ErrConfirmationMismatch) {
		t.Fatalf("expected ErrConfirmationMismatch, got %v", err)
	}

	kws, err := svc.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(kws) != 1 {
		t.Errorf("expected keywords untouched after rejected clear, got %d", len(kws))
	}
}

func TestClear_WipesTenantOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, text := range []string{"moon", "rocket"} {
		if _, err := svc.Add(ctx, "tenant-1", "owner-1", text); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := svc.Add(ctx, "tenant-2", "owner-2", "moon"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	deleted, err := svc.Clear(ctx, "tenant-1", "owner-1", ClearConfirmation)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(deleted) != 2 {
		t.Errorf("expected 2 deleted keywords, got %d", len(deleted))
	}

	remaining, err := svc.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected tenant-1 empty, got %d keywords", len(remaining))
	}

	other, err := svc.List(ctx, "tenant-2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("expected tenant-2 untouched, got %d keywords", len(other))
	}
}

func TestUndo_Add(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "pepe"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec, err := svc.Undo(ctx, "tenant-1", "owner-1")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if rec.Action != domain.UndoActionAdd {
		t.Errorf("expected undo action %s, got %s", domain.UndoActionAdd, rec.Action)
	}

	kws, err := svc.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(kws) != 0 {
		t.Errorf("expected keyword removed by undo, got %d keywords", len(kws))
	}
}

func TestUndo_Remove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "pepe"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Remove(ctx, "tenant-1", "owner-1", "pepe"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, err := svc.Undo(ctx, "tenant-1", "owner-1"); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	kws, err := svc.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(kws) != 1 || kws[0].Text != "pepe" {
		t.Fatalf("expected restored keyword %q, got %v", "pepe", kws)
	}
}

func TestUndo_Clear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, text := range []string{"moon", "rocket", "lambo"} {
		if _, err := svc.Add(ctx, "tenant-1", "owner-1", text); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := svc.Clear(ctx, "tenant-1", "owner-1", ClearConfirmation); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := svc.Undo(ctx, "tenant-1", "owner-1"); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	kws, err := svc.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(kws) != 3 {
		t.Errorf("expected 3 restored keywords, got %d", len(kws))
	}
}

func TestUndo_SingleLevel(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "pepe"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Undo(ctx, "tenant-1", "owner-1"); err != nil {
		t.Fatalf("first Undo: %v", err)
	}

	_, err := svc.Undo(ctx, "tenant-1", "owner-1")
	if !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndo_NothingRecorded(t *testing.T) {
	svc := newTestService()

	_, err := svc.Undo(context.Background(), "tenant-1", "owner-1")
	if !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndo_OverwritesPreviousRecord(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "pepe"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "tenant-1", "owner-1", "doge"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Only the most recent add is undoable.
	rec, err := svc.Undo(ctx, "tenant-1", "owner-1")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(rec.Keywords) != 1 || rec.Keywords[0].Text != "doge" {
		t.Fatalf("expected undo of %q, got %v", "doge", rec.Keywords)
	}

	kws, err := svc.List(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(kws) != 1 || kws[0].Text != "pepe" {
		t.Fatalf("expected %q to survive, got %v", "pepe", kws)
	}
}
