package intake

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/storage"
)

const (
	defaultFlushSize     = 200
	defaultFlushInterval = 5 * time.Second
)

// Recorder buffers detection samples and writes them to the analytics sink
// in bulk. Samples are observability data: a failed flush is logged and the
// batch dropped, never propagated to intake.
type Recorder struct {
	sink     storage.DetectionLogStore
	logger   *log.Logger
	interval time.Duration

	mu  sync.Mutex
	buf []*domain.DetectionSample
}

// NewRecorder creates a Recorder over the given sink.
func NewRecorder(sink storage.DetectionLogStore) *Recorder {
	return &Recorder{
		sink:     sink,
		logger:   log.New(os.Stdout, "[recorder] ", log.LstdFlags|log.Lshortfile),
		interval: defaultFlushInterval,
	}
}

// Record buffers one sample, flushing if the buffer is full.
func (r *Recorder) Record(ctx context.Context, sample *domain.DetectionSample) {
	r.mu.Lock()
	r.buf = append(r.buf, sample)
	full := len(r.buf) >= defaultFlushSize
	r.mu.Unlock()

	if full {
		r.Flush(ctx)
	}
}

// Flush writes the buffered samples to the sink.
func (r *Recorder) Flush(ctx context.Context) {
	r.mu.Lock()
	batch := r.buf
	r.buf = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if err := r.sink.InsertBulk(ctx, batch); err != nil {
		r.logger.Printf("dropping %d detection samples: %v", len(batch), err)
	}
}

// Run flushes the buffer on a fixed interval until ctx is cancelled, with a
// final flush on shutdown.
func (r *Recorder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			r.Flush(flushCtx)
			cancel()
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}
