package memory

import (
	"context"
	"sync"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// UndoRecordStore is an in-memory implementation of storage.UndoRecordStore.
// One record per tenant, replaced on every Put.
type UndoRecordStore struct {
	mu       sync.RWMutex
	byTenant map[string]*domain.UndoRecord
}

// NewUndoRecordStore creates a new in-memory undo record store.
func NewUndoRecordStore() *UndoRecordStore {
	return &UndoRecordStore{
		byTenant: make(map[string]*domain.UndoRecord),
	}
}

// Put stores the tenant's undo record, replacing an existing one.
func (s *UndoRecordStore) Put(_ context.Context, rec *domain.UndoRecord) error {
	if rec == nil || rec.TenantID == "" || !rec.Action.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *rec
	recCopy.Keywords = append([]domain.Keyword(nil), rec.Keywords...)
	s.byTenant[rec.TenantID] = &recCopy
	return nil
}

// Get retrieves the tenant's undo record. Returns ErrNotFound if absent.
func (s *UndoRecordStore) Get(_ context.Context, tenantID string) (*domain.UndoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.byTenant[tenantID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *rec
	recCopy.Keywords = append([]domain.Keyword(nil), rec.Keywords...)
	return &recCopy, nil
}

// Delete removes the tenant's undo record.
func (s *UndoRecordStore) Delete(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byTenant, tenantID)
	return nil
}

var _ storage.UndoRecordStore = (*UndoRecordStore)(nil)
