// Package intake admits raw launch events into the pipeline: address
// validation, duplicate discard, and routing between the immediate match
// path for named events and the pending queue for unnamed ones.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/match"
	"solana-keyword-sniper/internal/normalize"
	"solana-keyword-sniper/internal/observability"
	"solana-keyword-sniper/internal/solanaaddr"
	"solana-keyword-sniper/internal/storage"
)

// LaunchEvent is a raw platform sighting before admission.
type LaunchEvent struct {
	Address    string
	Platform   domain.Platform
	Name       string // may be empty or a placeholder
	DetectedAt int64  // Unix ms; zero means "now"
}

// Notifier dispatches a keyword match to the owning tenant's channel.
type Notifier interface {
	Dispatch(ctx context.Context, m domain.Match)
}

// Router admits launch events and runs the keyword match path over
// resolved names.
type Router struct {
	events   storage.TokenEventStore
	keywords storage.KeywordStore
	matcher  *match.Matcher
	notifier Notifier
	claims   *AddressClaims
	recorder *Recorder // nil disables the analytics sink
	logger   *log.Logger
	now      func() int64
}

// NewRouter creates a Router. recorder may be nil when no analytics sink is
// configured.
func NewRouter(
	events storage.TokenEventStore,
	keywords storage.KeywordStore,
	matcher *match.Matcher,
	notifier Notifier,
	claims *AddressClaims,
	recorder *Recorder,
) *Router {
	return &Router{
		events:   events,
		keywords: keywords,
		matcher:  matcher,
		notifier: notifier,
		claims:   claims,
		recorder: recorder,
		logger:   log.New(os.Stdout, "[intake] ", log.LstdFlags|log.Lshortfile),
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// Ingest admits one launch event. The first sighting of an address wins;
// later sightings are duplicates regardless of payload differences. Named
// events go straight through matching, unnamed ones enter the pending
// queue for background resolution.
func (r *Router) Ingest(ctx context.Context, raw LaunchEvent) (domain.DetectionOutcome, error) {
	detectedAt := raw.DetectedAt
	if detectedAt == 0 {
		detectedAt = r.now()
	}

	if err := solanaaddr.Validate(raw.Address); err != nil {
		r.record(ctx, raw, domain.DetectionRejected, detectedAt)
		observability.RecordEventRejected("invalid_address")
		return domain.DetectionRejected, nil
	}

	platform := raw.Platform
	if !platform.IsValid() {
		platform = domain.PlatformOther
	}

	if !r.claims.TryClaim(raw.Address) {
		// Another worker is admitting or resolving this address, so
		// this sighting cannot be the first.
		r.record(ctx, raw, domain.DetectionDuplicate, detectedAt)
		observability.RecordEventDuplicate()
		return domain.DetectionDuplicate, nil
	}
	defer r.claims.Release(raw.Address)

	event := &domain.TokenEvent{
		Address:    raw.Address,
		Platform:   platform,
		DetectedAt: detectedAt,
		Status:     domain.ResolutionPending,
		CreatedAt:  r.now(),
	}

	named := !domain.IsPlaceholderName(raw.Name)
	if named {
		name := raw.Name
		event.RawName = &name
		event.Status = domain.ResolutionResolved
	}

	if err := r.events.Insert(ctx, event); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			r.record(ctx, raw, domain.DetectionDuplicate, detectedAt)
			observability.RecordEventDuplicate()
			return domain.DetectionDuplicate, nil
		}
		return "", fmt.Errorf("insert token event: %w", err)
	}

	r.record(ctx, raw, domain.DetectionAccepted, detectedAt)
	observability.RecordEventDetected(platform.String())

	if named {
		if err := r.runMatchPath(ctx, event); err != nil {
			return domain.DetectionAccepted, err
		}
	} else {
		r.logger.Printf("queued unnamed event %s (%s) for resolution", event.Address, platform)
	}
	return domain.DetectionAccepted, nil
}

// ProcessResolved runs the match path over a token event whose name just
// resolved. The resolver holds the address claim while calling this.
func (r *Router) ProcessResolved(ctx context.Context, event *domain.TokenEvent) error {
	return r.runMatchPath(ctx, event)
}

// runMatchPath compares the event's name against every tenant's keywords
// and hands each match to the notifier. The notification log, not this
// path, enforces at-most-once delivery.
func (r *Router) runMatchPath(ctx context.Context, event *domain.TokenEvent) error {
	name := event.Name()
	tokenWords := normalize.WordSet(name)
	if len(tokenWords) == 0 {
		return nil
	}

	tenants, err := r.keywords.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	for _, tenantID := range tenants {
		kws, err := r.keywords.ListByTenant(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("list keywords for tenant %s: %w", tenantID, err)
		}
		for _, kw := range kws {
			if !r.matcher.MatchesWordSets(tokenWords, normalize.WordSet(kw.Text)) {
				continue
			}
			observability.RecordMatch()
			r.logger.Printf("matched %q (%s) against keyword %q for tenant %s",
				name, event.Address, kw.Text, tenantID)
			r.notifier.Dispatch(ctx, domain.Match{Event: event, Keyword: kw})
		}
	}
	return nil
}

func (r *Router) record(ctx context.Context, raw LaunchEvent, outcome domain.DetectionOutcome, detectedAt int64) {
	if r.recorder == nil {
		return
	}
	r.recorder.Record(ctx, &domain.DetectionSample{
		Address:    raw.Address,
		Platform:   raw.Platform,
		Outcome:    outcome,
		Named:      !domain.IsPlaceholderName(raw.Name),
		DetectedAt: detectedAt,
	})
}
