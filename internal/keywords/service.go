// Package keywords implements the tenant-scoped keyword operations invoked
// by the chat command surface: add, remove, clear, undo and list.
package keywords

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/normalize"
	"solana-keyword-sniper/internal/storage"
)

// Tenant-operation errors, surfaced synchronously to the command surface.
var (
	// ErrDuplicateKeyword is returned when the tenant already has the keyword.
	ErrDuplicateKeyword = errors.New("keyword already exists for tenant")

	// ErrKeywordNotFound is returned when removing a keyword the tenant
	// does not have.
	ErrKeywordNotFound = errors.New("keyword not found for tenant")

	// ErrEmptyKeyword is returned when the text normalizes to nothing.
	ErrEmptyKeyword = errors.New("keyword is empty after normalization")

	// ErrConfirmationMismatch is returned when clear is called without the
	// exact confirmation string.
	ErrConfirmationMismatch = errors.New("confirmation string mismatch")

	// ErrNothingToUndo is returned when the tenant has no undo record.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// ClearConfirmation is the exact string a caller must supply to wipe a
// tenant's keyword list.
const ClearConfirmation = "CONFIRM"

// Service provides tenant-scoped keyword management. Write operations are
// serialized per tenant to keep the single-level undo record consistent;
// reads proceed concurrently.
type Service struct {
	keywords storage.KeywordStore
	undo     storage.UndoRecordStore

	mu          sync.Mutex
	tenantLocks map[string]*sync.Mutex

	now func() int64
}

// NewService creates a keyword service over the given stores.
func NewService(keywords storage.KeywordStore, undo storage.UndoRecordStore) *Service {
	return &Service{
		keywords:    keywords,
		undo:        undo,
		tenantLocks: make(map[string]*sync.Mutex),
		now:         func() int64 { return time.Now().UnixMilli() },
	}
}

// lockTenant returns the tenant's write lock, creating it on first use.
func (s *Service) lockTenant(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.tenantLocks[tenantID]
	if !exists {
		lock = &sync.Mutex{}
		s.tenantLocks[tenantID] = lock
	}
	return lock
}

// Add inserts a keyword for the tenant. The text is normalized before
// storage so later matching compares canonical forms. Returns
// ErrDuplicateKeyword if the tenant already has the normalized text.
func (s *Service) Add(ctx context.Context, tenantID, ownerID, text string) (*domain.Keyword, error) {
	normalized := normalize.Join(text)
	if normalized == "" {
		return nil, ErrEmptyKeyword
	}

	lock := s.lockTenant(tenantID)
	lock.Lock()
	defer lock.Unlock()

	kw := &domain.Keyword{
		TenantID:  tenantID,
		OwnerID:   ownerID,
		Text:      normalized,
		CreatedAt: s.now(),
	}

	if err := s.keywords.Insert(ctx, kw); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, ErrDuplicateKeyword
		}
		return nil, fmt.Errorf("add keyword: %w", err)
	}

	s.recordUndo(ctx, tenantID, domain.UndoActionAdd, []domain.Keyword{*kw})
	return kw, nil
}

// Remove deletes the tenant's keyword matching the normalized text.
// Returns ErrKeywordNotFound if absent.
func (s *Service) Remove(ctx context.Context, tenantID, ownerID, text string) (*domain.Keyword, error) {
	normalized := normalize.Join(text)
	if normalized == "" {
		return nil, ErrEmptyKeyword
	}

	lock := s.lockTenant(tenantID)
	lock.Lock()
	defer lock.Unlock()

	deleted, err := s.keywords.Delete(ctx, tenantID, normalized)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrKeywordNotFound
		}
		return nil, fmt.Errorf("remove keyword: %w", err)
	}

	s.recordUndo(ctx, tenantID, domain.UndoActionRemove, []domain.Keyword{*deleted})
	return deleted, nil
}

// Clear wipes every keyword for the tenant. The caller must supply the
// exact ClearConfirmation string; anything else fails with
// ErrConfirmationMismatch and changes nothing.
func (s *Service) Clear(ctx context.Context, tenantID, ownerID, confirmation string) ([]domain.Keyword, error) {
	if confirmation != ClearConfirmation {
		return nil, ErrConfirmationMismatch
	}

	lock := s.lockTenant(tenantID)
	lock.Lock()
	defer lock.Unlock()

	deleted, err := s.keywords.DeleteAll(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("clear keywords: %w", err)
	}

	s.recordUndo(ctx, tenantID, domain.UndoActionClear, deleted)
	return deleted, nil
}

// Undo replays the inverse of the tenant's single stored undo record and
// consumes it: re-delete for add, re-insert for remove and clear. A second
// consecutive undo has nothing to act on and fails with ErrNothingToUndo.
func (s *Service) Undo(ctx context.Context, tenantID, ownerID string) (*domain.UndoRecord, error) {
	lock := s.lockTenant(tenantID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.undo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNothingToUndo
		}
		return nil, fmt.Errorf("load undo record: %w", err)
	}

	switch rec.Action {
	case domain.UndoActionAdd:
		for _, kw := range rec.Keywords {
			if _, err := s.keywords.Delete(ctx, tenantID, kw.Text); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("undo add: %w", err)
			}
		}
	case domain.UndoActionRemove, domain.UndoActionClear:
		for _, kw := range rec.Keywords {
			restored := kw
			restored.ID = 0
			if err := s.keywords.Insert(ctx, &restored); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return nil, fmt.Errorf("undo %s: %w", rec.Action, err)
			}
		}
	default:
		return nil, fmt.Errorf("undo: unknown action %q", rec.Action)
	}

	if err := s.undo.Delete(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("consume undo record: %w", err)
	}
	return rec, nil
}

// List retrieves the tenant's keywords ordered by creation time.
func (s *Service) List(ctx context.Context, tenantID string) ([]domain.Keyword, error) {
	kws, err := s.keywords.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	return kws, nil
}

// recordUndo replaces the tenant's undo record. A failure here must not
// fail the primary operation, so the error is swallowed: the worst case
// is a stale undo level, never lost keywords.
func (s *Service) recordUndo(ctx context.Context, tenantID string, action domain.UndoAction, payload []domain.Keyword) {
	rec := &domain.UndoRecord{
		TenantID:   tenantID,
		Action:     action,
		Keywords:   payload,
		RecordedAt: s.now(),
	}
	_ = s.undo.Put(ctx, rec)
}
