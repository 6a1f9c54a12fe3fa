package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// KeywordStore implements storage.KeywordStore using PostgreSQL.
// Every query filters on tenant_id; no cross-tenant path exists.
type KeywordStore struct {
	pool *Pool
}

// NewKeywordStore creates a new KeywordStore.
func NewKeywordStore(pool *Pool) *KeywordStore {
	return &KeywordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.KeywordStore = (*KeywordStore)(nil)

// Insert adds a keyword. Returns ErrDuplicateKey if (tenant, text) exists.
func (s *KeywordStore) Insert(ctx context.Context, kw *domain.Keyword) error {
	if kw == nil || kw.TenantID == "" || kw.OwnerID == "" || kw.Text == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO keywords (tenant_id, owner_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		kw.TenantID,
		kw.OwnerID,
		kw.Text,
		kw.CreatedAt,
	).Scan(&kw.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert keyword: %w", err)
	}
	return nil
}

// Delete removes the tenant's keyword with the given normalized text and
// returns the deleted row. Returns ErrNotFound if absent.
func (s *KeywordStore) Delete(ctx context.Context, tenantID, text string) (*domain.Keyword, error) {
	query := `
		DELETE FROM keywords
		WHERE tenant_id = $1 AND text = $2
		RETURNING id, tenant_id, owner_id, text, created_at
	`

	row := s.pool.QueryRow(ctx, query, tenantID, text)
	kw, err := scanKeyword(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("delete keyword: %w", err)
	}
	return kw, nil
}

// DeleteAll removes every keyword for the tenant and returns the deleted rows.
func (s *KeywordStore) DeleteAll(ctx context.Context, tenantID string) ([]domain.Keyword, error) {
	query := `
		DELETE FROM keywords
		WHERE tenant_id = $1
		RETURNING id, tenant_id, owner_id, text, created_at
	`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("delete all keywords: %w", err)
	}
	defer rows.Close()

	deleted := make([]domain.Keyword, 0)
	for rows.Next() {
		kw, err := scanKeyword(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted keyword: %w", err)
		}
		deleted = append(deleted, *kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted keywords: %w", err)
	}
	return deleted, nil
}

// ListByTenant retrieves all keywords for a tenant, ordered by creation time ASC.
func (s *KeywordStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.Keyword, error) {
	query := `
		SELECT id, tenant_id, owner_id, text, created_at
		FROM keywords
		WHERE tenant_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Keyword, 0)
	for rows.Next() {
		kw, err := scanKeyword(rows)
		if err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		result = append(result, *kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}
	return result, nil
}

// ListTenants retrieves the IDs of all tenants holding at least one keyword.
func (s *KeywordStore) ListTenants(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT tenant_id
		FROM keywords
		ORDER BY tenant_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tenant id: %w", err)
		}
		tenants = append(tenants, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return tenants, nil
}

// scanKeyword scans a single row into a Keyword.
func scanKeyword(row pgx.Row) (*domain.Keyword, error) {
	var kw domain.Keyword

	err := row.Scan(
		&kw.ID,
		&kw.TenantID,
		&kw.OwnerID,
		&kw.Text,
		&kw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &kw, nil
}
