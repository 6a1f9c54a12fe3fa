package memory

import (
	"context"
	"sync"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

// DetectionLogStore is an in-memory implementation of
// storage.DetectionLogStore.
type DetectionLogStore struct {
	mu      sync.RWMutex
	samples []*domain.DetectionSample
}

// NewDetectionLogStore creates a new in-memory detection log.
func NewDetectionLogStore() *DetectionLogStore {
	return &DetectionLogStore{}
}

// InsertBulk appends detection samples.
func (s *DetectionLogStore) InsertBulk(_ context.Context, samples []*domain.DetectionSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range samples {
		if sample == nil {
			return storage.ErrInvalidInput
		}
		sampleCopy := *sample
		s.samples = append(s.samples, &sampleCopy)
	}
	return nil
}

// CountByPlatform returns total detections per platform within [start, end].
func (s *DetectionLogStore) CountByPlatform(_ context.Context, start, end int64) (map[domain.Platform]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Platform]int64)
	for _, sample := range s.samples {
		if sample.DetectedAt < start || sample.DetectedAt > end {
			continue
		}
		counts[sample.Platform]++
	}
	return counts, nil
}

var _ storage.DetectionLogStore = (*DetectionLogStore)(nil)
