package memory

import (
	"context"
	"sync"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// BindingStore is an in-memory implementation of storage.BindingStore.
type BindingStore struct {
	mu       sync.RWMutex
	byTenant map[string]*domain.ChannelBinding
}

// NewBindingStore creates a new in-memory binding store.
func NewBindingStore() *BindingStore {
	return &BindingStore{
		byTenant: make(map[string]*domain.ChannelBinding),
	}
}

// Put stores the tenant's binding, replacing an existing one.
func (s *BindingStore) Put(_ context.Context, b *domain.ChannelBinding) error {
	if b == nil || b.TenantID == "" || b.Endpoint == "" || b.ConfiguredBy == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bCopy := *b
	s.byTenant[b.TenantID] = &bCopy
	return nil
}

// Get retrieves the tenant's binding. Returns ErrNotFound if not configured.
func (s *BindingStore) Get(_ context.Context, tenantID string) (*domain.ChannelBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.byTenant[tenantID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	bCopy := *b
	return &bCopy, nil
}

// Delete removes the tenant's binding.
func (s *BindingStore) Delete(_ context.Context, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byTenant, tenantID)
	return nil
}

var _ storage.BindingStore = (*BindingStore)(nil)
