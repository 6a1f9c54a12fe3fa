package memory

import (
	"context"
	"sync"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// NotificationLogStore is an in-memory implementation of
// storage.NotificationLogStore.
type NotificationLogStore struct {
	mu   sync.Mutex
	seen map[notificationKey]struct{}
}

type notificationKey struct {
	address     string
	tenantID    string
	keywordText string
}

// NewNotificationLogStore creates a new in-memory notification log.
func NewNotificationLogStore() *NotificationLogStore {
	return &NotificationLogStore{
		seen: make(map[notificationKey]struct{}),
	}
}

// Insert records a notification. Returns ErrDuplicateKey if the tuple exists.
func (s *NotificationLogStore) Insert(_ context.Context, rec *domain.NotificationRecord) error {
	if rec == nil || rec.Address == "" || rec.TenantID == "" || rec.KeywordText == "" {
		return storage.ErrInvalidInput
	}

	key := notificationKey{
		address:     rec.Address,
		tenantID:    rec.TenantID,
		keywordText: rec.KeywordText,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.seen[key] = struct{}{}
	return nil
}

var _ storage.NotificationLogStore = (*NotificationLogStore)(nil)
