package postgres

import (
	"context"
	"fmt"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// BindingStore implements storage.BindingStore using PostgreSQL.
type BindingStore struct {
	pool *Pool
}

// NewBindingStore creates a new BindingStore.
func NewBindingStore(pool *Pool) *BindingStore {
	return &BindingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BindingStore = (*BindingStore)(nil)

// Put stores the tenant's binding, replacing an existing one.
func (s *BindingStore) Put(ctx context.Context, b *domain.ChannelBinding) error {
	if b == nil || b.TenantID == "" || b.Endpoint == "" || b.ConfiguredBy == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO channel_bindings (tenant_id, endpoint, configured_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id) DO UPDATE SET
			endpoint = EXCLUDED.endpoint,
			configured_by = EXCLUDED.configured_by,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.pool.Exec(ctx, query, b.TenantID, b.Endpoint, b.ConfiguredBy, b.UpdatedAt); err != nil {
		return fmt.Errorf("put channel binding: %w", err)
	}
	return nil
}

// Get retrieves the tenant's binding. Returns ErrNotFound if not configured.
func (s *BindingStore) Get(ctx context.Context, tenantID string) (*domain.ChannelBinding, error) {
	query := `
		SELECT tenant_id, endpoint, configured_by, updated_at
		FROM channel_bindings
		WHERE tenant_id = $1
	`

	var b domain.ChannelBinding
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(&b.TenantID, &b.Endpoint, &b.ConfiguredBy, &b.UpdatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get channel binding: %w", err)
	}
	return &b, nil
}

// Delete removes the tenant's binding. Missing bindings are not an error.
func (s *BindingStore) Delete(ctx context.Context, tenantID string) error {
	query := `DELETE FROM channel_bindings WHERE tenant_id = $1`

	if _, err := s.pool.Exec(ctx, query, tenantID); err != nil {
		return fmt.Errorf("delete channel binding: %w", err)
	}
	return nil
}
