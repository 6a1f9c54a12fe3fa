package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// UndoRecordStore implements storage.UndoRecordStore using PostgreSQL.
// The keyword payload is stored as JSONB; one row per tenant.
type UndoRecordStore struct {
	pool *Pool
}

// NewUndoRecordStore creates a new UndoRecordStore.
func NewUndoRecordStore(pool *Pool) *UndoRecordStore {
	return &UndoRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UndoRecordStore = (*UndoRecordStore)(nil)

// Put stores the tenant's undo record, replacing an existing one.
func (s *UndoRecordStore) Put(ctx context.Context, rec *domain.UndoRecord) error {
	if rec == nil || rec.TenantID == "" || !rec.Action.IsValid() {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("marshal undo payload: %w", err)
	}

	query := `
		INSERT INTO undo_records (tenant_id, action_type, payload, recorded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id) DO UPDATE SET
			action_type = EXCLUDED.action_type,
			payload = EXCLUDED.payload,
			recorded_at = EXCLUDED.recorded_at
	`

	if _, err := s.pool.Exec(ctx, query, rec.TenantID, rec.Action.String(), payload, rec.RecordedAt); err != nil {
		return fmt.Errorf("put undo record: %w", err)
	}
	return nil
}

// Get retrieves the tenant's undo record. Returns ErrNotFound if absent.
func (s *UndoRecordStore) Get(ctx context.Context, tenantID string) (*domain.UndoRecord, error) {
	query := `
		SELECT tenant_id, action_type, payload, recorded_at
		FROM undo_records
		WHERE tenant_id = $1
	`

	var (
		rec     domain.UndoRecord
		action  string
		payload []byte
	)
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(&rec.TenantID, &action, &payload, &rec.RecordedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get undo record: %w", err)
	}

	rec.Action = domain.UndoAction(action)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &rec.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal undo payload: %w", err)
		}
	}
	return &rec, nil
}

// Delete removes the tenant's undo record. Missing records are not an error.
func (s *UndoRecordStore) Delete(ctx context.Context, tenantID string) error {
	query := `DELETE FROM undo_records WHERE tenant_id = $1`

	if _, err := s.pool.Exec(ctx, query, tenantID); err != nil {
		return fmt.Errorf("delete undo record: %w", err)
	}
	return nil
}
