package memory

import (
	"context"
	"sort"
	"sync"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// TokenEventStore is an in-memory implementation of storage.TokenEventStore.
type TokenEventStore struct {
	mu        sync.RWMutex
	byAddress map[string]*domain.TokenEvent
}

// NewTokenEventStore creates a new in-memory token event store.
func NewTokenEventStore() *TokenEventStore {
	return &TokenEventStore{
		byAddress: make(map[string]*domain.TokenEvent),
	}
}

// Insert adds a new token event. Returns ErrDuplicateKey if the address exists.
func (s *TokenEventStore) Insert(_ context.Context, e *domain.TokenEvent) error {
	if e == nil || e.Address == "" || !e.Platform.IsValid() || !e.Status.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byAddress[e.Address]; exists {
		return storage.ErrDuplicateKey
	}

	eventCopy := *e
	s.byAddress[e.Address] = &eventCopy
	return nil
}

// GetByAddress retrieves an event by address. Returns ErrNotFound if not exists.
func (s *TokenEventStore) GetByAddress(_ context.Context, address string) (*domain.TokenEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.byAddress[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	eventCopy := *e
	return &eventCopy, nil
}

// ListPending retrieves PENDING events detected within the inclusive
// [detectedAfter, detectedBefore] window, ordered by detection time ASC.
func (s *TokenEventStore) ListPending(_ context.Context, detectedAfter, detectedBefore int64, limit int) ([]*domain.TokenEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenEvent
	for _, e := range s.byAddress {
		if e.Status != domain.ResolutionPending {
			continue
		}
		if e.DetectedAt < detectedAfter || e.DetectedAt > detectedBefore {
			continue
		}
		eventCopy := *e
		result = append(result, &eventCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DetectedAt != result[j].DetectedAt {
			return result[i].DetectedAt < result[j].DetectedAt
		}
		return result[i].Address < result[j].Address
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MarkResolved sets the event's name and RESOLVED status.
func (s *TokenEventStore) MarkResolved(_ context.Context, address, name string) error {
	if address == "" || name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.byAddress[address]
	if !exists {
		return storage.ErrNotFound
	}

	nameCopy := name
	e.RawName = &nameCopy
	e.Status = domain.ResolutionResolved
	return nil
}

// MarkFailed transitions the event to terminal FAILED status.
func (s *TokenEventStore) MarkFailed(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.byAddress[address]
	if !exists {
		return storage.ErrNotFound
	}

	e.Status = domain.ResolutionFailed
	return nil
}

// IncrementRetry bumps the retry counter and returns the new count.
func (s *TokenEventStore) IncrementRetry(_ context.Context, address string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.byAddress[address]
	if !exists {
		return 0, storage.ErrNotFound
	}

	e.RetryCount++
	return e.RetryCount, nil
}

var _ storage.TokenEventStore = (*TokenEventStore)(nil)
