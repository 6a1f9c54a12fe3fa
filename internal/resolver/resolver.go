package resolver

import (
	"context"
	"log"
	"os"
	"time"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/intake"
	"solana-keyword-sniper/internal/observability"
	"solana-keyword-sniper/internal/storage"
)

// Defaults for the resolution policy. All overridable via Config.
const (
	DefaultInterval   = 60 * time.Second
	DefaultGrace      = 2 * time.Minute
	DefaultMaxAge     = 24 * time.Hour
	DefaultMaxRetries = 8
	DefaultBatchLimit = 100
)

// Config tunes the resolution sweep.
type Config struct {
	// Interval between sweeps.
	Interval time.Duration

	// Grace is how long after detection an event is left alone before the
	// first resolution attempt, giving slow metadata indexers time to
	// catch up.
	Grace time.Duration

	// MaxAge is how long after detection an event is abandoned as FAILED.
	MaxAge time.Duration

	// MaxRetries is the attempt count after which an event fails.
	MaxRetries int

	// BatchLimit caps events processed per sweep.
	BatchLimit int
}

// withDefaults fills zero fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = DefaultBatchLimit
	}
	return c
}

// ResolvedHandler receives events whose names just resolved, typically the
// intake router's match path.
type ResolvedHandler interface {
	ProcessResolved(ctx context.Context, event *domain.TokenEvent) error
}

// Resolver sweeps PENDING token events and resolves their names through the
// configured sources in order.
type Resolver struct {
	events  storage.TokenEventStore
	sources []NameSource
	handler ResolvedHandler
	claims  *intake.AddressClaims
	cfg     Config
	logger  *log.Logger
	now     func() int64
}

// New creates a Resolver. Sources are consulted in slice order.
func New(
	events storage.TokenEventStore,
	sources []NameSource,
	handler ResolvedHandler,
	claims *intake.AddressClaims,
	cfg Config,
) *Resolver {
	return &Resolver{
		events:  events,
		sources: sources,
		handler: handler,
		claims:  claims,
		cfg:     cfg.withDefaults(),
		logger:  log.New(os.Stdout, "[resolver] ", log.LstdFlags|log.Lshortfile),
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (r *Resolver) Run(ctx context.Context) {
	r.logger.Printf("starting: interval=%s grace=%s max_age=%s max_retries=%d",
		r.cfg.Interval, r.cfg.Grace, r.cfg.MaxAge, r.cfg.MaxRetries)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Println("stopping")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Printf("sweep failed: %v", err)
			}
		}
	}
}

// Sweep processes one batch of pending events: events still inside the
// grace period are skipped, events past max age are abandoned, the rest
// get one resolution attempt each.
func (r *Resolver) Sweep(ctx context.Context) error {
	now := r.now()
	detectedBefore := now - r.cfg.Grace.Milliseconds()

	pending, err := r.events.ListPending(ctx, 0, detectedBefore, r.cfg.BatchLimit)
	if err != nil {
		return err
	}
	observability.DefaultMetrics.PendingBacklog.Set(float64(len(pending)))

	for _, event := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.processEvent(ctx, event, now)
	}

	observability.DefaultMetrics.LastSuccessfulSweep.Set(float64(time.Now().Unix()))
	return nil
}

// processEvent makes one resolution attempt for the event while holding
// its address claim. Outcomes are logged, never returned: a single bad
// event must not abort the sweep.
func (r *Resolver) processEvent(ctx context.Context, event *domain.TokenEvent, now int64) {
	if !r.claims.TryClaim(event.Address) {
		return
	}
	defer r.claims.Release(event.Address)

	if now-event.DetectedAt > r.cfg.MaxAge.Milliseconds() {
		if err := r.events.MarkFailed(ctx, event.Address); err != nil {
			r.logger.Printf("mark %s failed: %v", event.Address, err)
			return
		}
		observability.RecordResolutionFailed()
		r.logger.Printf("abandoned %s: older than %s", event.Address, r.cfg.MaxAge)
		return
	}

	observability.DefaultMetrics.ResolutionAttempts.Inc()

	name, source, ok := r.resolveName(ctx, event.Address)
	if !ok {
		retries, err := r.events.IncrementRetry(ctx, event.Address)
		if err != nil {
			r.logger.Printf("increment retry for %s: %v", event.Address, err)
			return
		}
		if retries >= r.cfg.MaxRetries {
			if err := r.events.MarkFailed(ctx, event.Address); err != nil {
				r.logger.Printf("mark %s failed: %v", event.Address, err)
				return
			}
			observability.RecordResolutionFailed()
			r.logger.Printf("abandoned %s after %d attempts", event.Address, retries)
		}
		return
	}

	if err := r.events.MarkResolved(ctx, event.Address, name); err != nil {
		r.logger.Printf("mark %s resolved: %v", event.Address, err)
		return
	}
	observability.RecordResolution(source)
	r.logger.Printf("resolved %s to %q via %s", event.Address, name, source)

	resolved := *event
	resolved.RawName = &name
	resolved.Status = domain.ResolutionResolved
	if err := r.handler.ProcessResolved(ctx, &resolved); err != nil {
		r.logger.Printf("match path for %s: %v", event.Address, err)
	}
}

// resolveName tries each source in order and returns the first usable name
// with the source that produced it.
func (r *Resolver) resolveName(ctx context.Context, address string) (string, string, bool) {
	for _, src := range r.sources {
		name, err := src.Resolve(ctx, address)
		if err != nil {
			r.logger.Printf("%s: %s: %v", src.Name(), address, err)
			continue
		}
		if domain.IsPlaceholderName(name) {
			continue
		}
		return name, src.Name(), true
	}
	return "", "", false
}
