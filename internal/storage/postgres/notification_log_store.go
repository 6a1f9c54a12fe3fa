package postgres

import (
	"context"
	"fmt"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// NotificationLogStore implements storage.NotificationLogStore using
// PostgreSQL. The unique constraint on (address, tenant_id, keyword_text)
// is what makes dispatch idempotent across process restarts.
type NotificationLogStore struct {
	pool *Pool
}

// NewNotificationLogStore creates a new NotificationLogStore.
func NewNotificationLogStore(pool *Pool) *NotificationLogStore {
	return &NotificationLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NotificationLogStore = (*NotificationLogStore)(nil)

// Insert records a notification. Returns ErrDuplicateKey if the tuple exists.
func (s *NotificationLogStore) Insert(ctx context.Context, rec *domain.NotificationRecord) error {
	if rec == nil || rec.Address == "" || rec.TenantID == "" || rec.KeywordText == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO notification_log (address, tenant_id, keyword_text, notified_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, rec.Address, rec.TenantID, rec.KeywordText, rec.NotifiedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert notification record: %w", err)
	}
	return nil
}
