package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// TokenEventStore implements storage.TokenEventStore using PostgreSQL.
type TokenEventStore struct {
	pool *Pool
}

// NewTokenEventStore creates a new TokenEventStore.
func NewTokenEventStore(pool *Pool) *TokenEventStore {
	return &TokenEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenEventStore = (*TokenEventStore)(nil)

// Insert adds a new token event. Returns ErrDuplicateKey if the address exists.
func (s *TokenEventStore) Insert(ctx context.Context, e *domain.TokenEvent) error {
	if e == nil || e.Address == "" || !e.Platform.IsValid() || !e.Status.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_events (
			address, platform, raw_name, detected_at, resolution_status, retry_count
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		e.Address,
		e.Platform.String(),
		e.RawName,
		e.DetectedAt,
		e.Status.String(),
		e.RetryCount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token event: %w", err)
	}
	return nil
}

// GetByAddress retrieves an event by address. Returns ErrNotFound if not exists.
func (s *TokenEventStore) GetByAddress(ctx context.Context, address string) (*domain.TokenEvent, error) {
	query := `
		SELECT address, platform, raw_name, detected_at, resolution_status, retry_count, created_at
		FROM token_events
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	e, err := scanTokenEvent(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token event by address: %w", err)
	}
	return e, nil
}

// ListPending retrieves PENDING events detected within [detectedAfter,
// detectedBefore] inclusive, ordered by detection time ASC.
func (s *TokenEventStore) ListPending(ctx context.Context, detectedAfter, detectedBefore int64, limit int) ([]*domain.TokenEvent, error) {
	query := `
		SELECT address, platform, raw_name, detected_at, resolution_status, retry_count, created_at
		FROM token_events
		WHERE resolution_status = 'PENDING'
		  AND detected_at >= $1
		  AND detected_at <= $2
		ORDER BY detected_at ASC, address ASC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, query, detectedAfter, detectedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending token events: %w", err)
	}
	defer rows.Close()

	var events []*domain.TokenEvent
	for rows.Next() {
		e, err := scanTokenEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending token event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending token events: %w", err)
	}
	return events, nil
}

// MarkResolved sets the event's name and RESOLVED status.
func (s *TokenEventStore) MarkResolved(ctx context.Context, address, name string) error {
	if address == "" || name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE token_events
		SET raw_name = $2, resolution_status = 'RESOLVED'
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query, address, name)
	if err != nil {
		return fmt.Errorf("mark token event resolved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// MarkFailed transitions the event to terminal FAILED status.
func (s *TokenEventStore) MarkFailed(ctx context.Context, address string) error {
	query := `
		UPDATE token_events
		SET resolution_status = 'FAILED'
		WHERE address = $1
	`

	tag, err := s.pool.Exec(ctx, query, address)
	if err != nil {
		return fmt.Errorf("mark token event failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// IncrementRetry bumps the retry counter and returns the new count.
func (s *TokenEventStore) IncrementRetry(ctx context.Context, address string) (int, error) {
	query := `
		UPDATE token_events
		SET retry_count = retry_count + 1
		WHERE address = $1
		RETURNING retry_count
	`

	var count int
	err := s.pool.QueryRow(ctx, query, address).Scan(&count)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("increment token event retry: %w", err)
	}
	return count, nil
}

// scanTokenEvent scans a single row into a TokenEvent.
func scanTokenEvent(row pgx.Row) (*domain.TokenEvent, error) {
	var (
		e        domain.TokenEvent
		platform string
		status   string
	)

	err := row.Scan(
		&e.Address,
		&platform,
		&e.RawName,
		&e.DetectedAt,
		&status,
		&e.RetryCount,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Platform = domain.Platform(platform)
	e.Status = domain.ResolutionStatus(status)
	return &e, nil
}
