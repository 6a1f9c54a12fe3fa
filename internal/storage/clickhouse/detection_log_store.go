package clickhouse

import (
	"context"
	"fmt"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// DetectionLogStore implements storage.DetectionLogStore using ClickHouse.
// MergeTree does not enforce uniqueness; the log is append-only and
// duplicates are tolerated by the analytics queries.
type DetectionLogStore struct {
	conn *Conn
}

// NewDetectionLogStore creates a new DetectionLogStore.
func NewDetectionLogStore(conn *Conn) *DetectionLogStore {
	return &DetectionLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DetectionLogStore = (*DetectionLogStore)(nil)

// InsertBulk appends detection samples.
func (s *DetectionLogStore) InsertBulk(ctx context.Context, samples []*domain.DetectionSample) error {
	if len(samples) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO detection_log (
			address, platform, outcome, named, detected_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		named := uint8(0)
		if sample.Named {
			named = 1
		}
		err = batch.Append(
			sample.Address,
			sample.Platform.String(),
			sample.Outcome.String(),
			named,
			uint64(sample.DetectedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountByPlatform returns total detections per platform within [start, end].
func (s *DetectionLogStore) CountByPlatform(ctx context.Context, start, end int64) (map[domain.Platform]int64, error) {
	query := `
		SELECT platform, count() AS total
		FROM detection_log
		WHERE detected_at >= ? AND detected_at <= ?
		GROUP BY platform
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("count detections by platform: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Platform]int64)
	for rows.Next() {
		var (
			platform string
			total    uint64
		)
		if err := rows.Scan(&platform, &total); err != nil {
			return nil, fmt.Errorf("scan detection count: %w", err)
		}
		counts[domain.Platform(platform)] = int64(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detection counts: %w", err)
	}
	return counts, nil
}
