package storage

import (
	"context"

	"solana-keyword-sniper/internal/domain"
)

// TokenEventStore provides access to token_events storage.
// Addresses are globally unique: Insert rejects re-detections.
type TokenEventStore interface {
	// Insert adds a new token event. Returns ErrDuplicateKey if the
	// address was already admitted.
	Insert(ctx context.Context, e *domain.TokenEvent) error

	// GetByAddress retrieves an event by its address. Returns ErrNotFound
	// if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.TokenEvent, error)

	// ListPending retrieves up to limit PENDING events detected within
	// [detectedAfter, detectedBefore] (Unix ms, inclusive), ordered by
	// detection time ASC.
	ListPending(ctx context.Context, detectedAfter, detectedBefore int64, limit int) ([]*domain.TokenEvent, error)

	// MarkResolved sets the event's raw name and RESOLVED status.
	// Returns ErrNotFound if the address does not exist.
	MarkResolved(ctx context.Context, address, name string) error

	// MarkFailed transitions the event to terminal FAILED status.
	// Returns ErrNotFound if the address does not exist.
	MarkFailed(ctx context.Context, address string) error

	// IncrementRetry bumps the event's resolution retry counter and
	// returns the new count. Returns ErrNotFound if not exists.
	IncrementRetry(ctx context.Context, address string) (int, error)
}

// KeywordStore provides access to keywords storage. Every operation is
// parameterized by tenant; there is no cross-tenant read or write.
type KeywordStore interface {
	// Insert adds a keyword. Returns ErrDuplicateKey if the tenant already
	// has the same normalized text.
	Insert(ctx context.Context, kw *domain.Keyword) error

	// Delete removes the tenant's keyword with the given normalized text
	// and returns the deleted row. Returns ErrNotFound if absent.
	Delete(ctx context.Context, tenantID, text string) (*domain.Keyword, error)

	// DeleteAll removes every keyword for the tenant and returns the
	// deleted rows. An empty tenant set returns an empty slice, not an error.
	DeleteAll(ctx context.Context, tenantID string) ([]domain.Keyword, error)

	// ListByTenant retrieves all keywords for a tenant, ordered by
	// creation time ASC.
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Keyword, error)

	// ListTenants retrieves the IDs of all tenants holding at least one
	// keyword.
	ListTenants(ctx context.Context) ([]string, error)
}

// UndoRecordStore provides access to undo_records storage.
// At most one record per tenant; Put replaces any previous record.
type UndoRecordStore interface {
	// Put stores the tenant's undo record, replacing an existing one.
	Put(ctx context.Context, rec *domain.UndoRecord) error

	// Get retrieves the tenant's undo record. Returns ErrNotFound if the
	// tenant has nothing to undo.
	Get(ctx context.Context, tenantID string) (*domain.UndoRecord, error)

	// Delete removes the tenant's undo record after it has been consumed.
	// Deleting a missing record is not an error.
	Delete(ctx context.Context, tenantID string) error
}

// BindingStore provides access to channel_bindings storage.
type BindingStore interface {
	// Put stores the tenant's binding, replacing an existing one.
	Put(ctx context.Context, b *domain.ChannelBinding) error

	// Get retrieves the tenant's binding. Returns ErrNotFound if the
	// tenant has no endpoint configured.
	Get(ctx context.Context, tenantID string) (*domain.ChannelBinding, error)

	// Delete removes the tenant's binding. Deleting a missing binding is
	// not an error.
	Delete(ctx context.Context, tenantID string) error
}

// DetectionLogStore is an append-only analytics sink for intake outcomes.
// It is observability-only: implementations may drop samples on error and
// callers must never treat a sink failure as a pipeline failure.
type DetectionLogStore interface {
	// InsertBulk appends detection samples.
	InsertBulk(ctx context.Context, samples []*domain.DetectionSample) error

	// CountByPlatform returns total detections per platform within
	// [start, end] (Unix ms, inclusive).
	CountByPlatform(ctx context.Context, start, end int64) (map[domain.Platform]int64, error)
}

// NotificationLogStore records dispatched notifications for idempotence.
type NotificationLogStore interface {
	// Insert records a notification. Returns ErrDuplicateKey if the same
	// (address, tenant, keyword text) tuple was already recorded, which
	// callers treat as "already sent".
	Insert(ctx context.Context, rec *domain.NotificationRecord) error
}
