package memory

import (
	"context"
	"sort"
	"sync"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// KeywordStore is an in-memory implementation of storage.KeywordStore.
// Keywords are partitioned by tenant; no operation crosses tenants.
type KeywordStore struct {
	mu       sync.RWMutex
	nextID   int64
	byTenant map[string]map[string]*domain.Keyword // tenant -> normalized text -> keyword
}

// NewKeywordStore creates a new in-memory keyword store.
func NewKeywordStore() *KeywordStore {
	return &KeywordStore{
		nextID:   1,
		byTenant: make(map[string]map[string]*domain.Keyword),
	}
}

// Insert adds a keyword. Returns ErrDuplicateKey if (tenant, text) exists.
func (s *KeywordStore) Insert(_ context.Context, kw *domain.Keyword) error {
	if kw == nil || kw.TenantID == "" || kw.OwnerID == "" || kw.Text == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.byTenant[kw.TenantID]
	if !exists {
		tenant = make(map[string]*domain.Keyword)
		s.byTenant[kw.TenantID] = tenant
	}

	if _, exists := tenant[kw.Text]; exists {
		return storage.ErrDuplicateKey
	}

	kwCopy := *kw
	kwCopy.ID = s.nextID
	s.nextID++
	tenant[kw.Text] = &kwCopy

	// Reflect the assigned ID back to the caller, mirroring a serial column.
	kw.ID = kwCopy.ID
	return nil
}

// Delete removes the tenant's keyword with the given normalized text.
func (s *KeywordStore) Delete(_ context.Context, tenantID, text string) (*domain.Keyword, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.byTenant[tenantID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	kw, exists := tenant[text]
	if !exists {
		return nil, storage.ErrNotFound
	}

	delete(tenant, text)
	kwCopy := *kw
	return &kwCopy, nil
}

// DeleteAll removes every keyword for the tenant and returns the deleted rows.
func (s *KeywordStore) DeleteAll(_ context.Context, tenantID string) ([]domain.Keyword, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant := s.byTenant[tenantID]
	deleted := make([]domain.Keyword, 0, len(tenant))
	for _, kw := range tenant {
		deleted = append(deleted, *kw)
	}
	delete(s.byTenant, tenantID)

	sortKeywords(deleted)
	return deleted, nil
}

// ListByTenant retrieves all keywords for a tenant, ordered by creation time ASC.
func (s *KeywordStore) ListByTenant(_ context.Context, tenantID string) ([]domain.Keyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant := s.byTenant[tenantID]
	result := make([]domain.Keyword, 0, len(tenant))
	for _, kw := range tenant {
		result = append(result, *kw)
	}

	sortKeywords(result)
	return result, nil
}

// ListTenants retrieves the IDs of all tenants holding at least one keyword.
func (s *KeywordStore) ListTenants(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tenants []string
	for id, kws := range s.byTenant {
		if len(kws) > 0 {
			tenants = append(tenants, id)
		}
	}

	sort.Strings(tenants)
	return tenants, nil
}

// sortKeywords orders keywords by creation time, then ID for determinism.
func sortKeywords(kws []domain.Keyword) {
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].CreatedAt != kws[j].CreatedAt {
			return kws[i].CreatedAt < kws[j].CreatedAt
		}
		return kws[i].ID < kws[j].ID
	})
}

var _ storage.KeywordStore = (*KeywordStore)(nil)
