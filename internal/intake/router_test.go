package intake

import (
	"context"
	"sync"
	"testing"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/match"
	"solana-keyword-sniper/internal/storage"
	"solana-keyword-sniper/internal/storage/memory"
)

// Known on-curve mint addresses used as fixtures.
const (
	addrSOL  = "So11111111111111111111111111111111111111112"
	addrUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	addrBONK = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

type captureNotifier struct {
	mu      sync.Mutex
	matches []domain.Match
}

func (n *captureNotifier) Dispatch(_ context.Context, m domain.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matches = append(n.matches, m)
}

func (n *captureNotifier) all() []domain.Match {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Match(nil), n.matches...)
}

type routerFixture struct {
	router   *Router
	events   *memory.TokenEventStore
	keywords *memory.KeywordStore
	notifier *captureNotifier
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		events:   memory.NewTokenEventStore(),
		keywords: memory.NewKeywordStore(),
		notifier: &captureNotifier{},
	}
	f.router = NewRouter(f.events, f.keywords, match.New(0), f.notifier, NewAddressClaims(), nil)
	return f
}

func (f *routerFixture) addKeyword(t *testing.T, tenantID, text string) {
	t.Helper()
	err := f.keywords.Insert(context.Background(), &domain.Keyword{
		TenantID: tenantID,
		OwnerID:  "owner-1",
		Text:     text,
	})
	if err != nil {
		t.Fatalf("insert keyword: %v", err)
	}
}

func TestIngest_NamedEventMatchesImmediately(t *testing.T) {
	f := newRouterFixture()
	f.addKeyword(t, "tenant-1", "pepe")

	outcome, err := f.router.Ingest(context.Background(), LaunchEvent{
		Address:  addrSOL,
		Platform: domain.PlatformPumpFun,
		Name:     "Pepe Reborn",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if outcome != domain.DetectionAccepted {
		t.Fatalf("expected ACCEPTED, got %s", outcome)
	}

	stored, err := f.events.GetByAddress(context.Background(), addrSOL)
	if err != nil {
		t.Fatalf("GetByAddress: %v", err)
	}
	if stored.Status != domain.ResolutionResolved {
		t.Errorf("expected RESOLVED status, got %s", stored.Status)
	}

	matches := f.notifier.all()
	if len(matches) != 1 {
		t.Fatalf("expected 1 match dispatched, got %d", len(matches))
	}
	if matches[0].Keyword.Text != "pepe" || matches[0].Event.Address != addrSOL {
		t.Errorf("unexpected match %+v", matches[0])
	}
}

func TestIngest_UnnamedEventGoesPending(t *testing.T) {
	f := newRouterFixture()
	f.addKeyword(t, "tenant-1", "unnamed token")

	outcome, err := f.router.Ingest(context.Background(), LaunchEvent{
		Address:  addrSOL,
		Platform: domain.PlatformPumpFun,
		Name:     "",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if outcome != domain.DetectionAccepted {
		t.Fatalf("expected ACCEPTED, got %s", outcome)
	}

	stored, err := f.events.GetByAddress(context.Background(), addrSOL)
	if err != nil {
		t.Fatalf("GetByAddress: %v", err)
	}
	if stored.Status != domain.ResolutionPending {
		t.Errorf("expected PENDING status, got %s", stored.Status)
	}
	if stored.RawName != nil {
		t.Errorf("expected nil raw name, got %q", *stored.RawName)
	}

	// Placeholders never reach the match path.
	if got := f.notifier.all(); len(got) != 0 {
		t.Errorf("expected no dispatches for unnamed event, got %d", len(got))
	}
}

func TestIngest_PlaceholderNameTreatedAsUnnamed(t *testing.T) {
	f := newRouterFixture()

	for i, name := range []string{"Unknown", "Unnamed Token x7Gbk2"} {
		addr := []string{addrSOL, addrUSDC}[i]
		if _, err := f.router.Ingest(context.Background(), LaunchEvent{
			Address:  addr,
			Platform: domain.PlatformPumpFun,
			Name:     name,
		}); err != nil {
			t.Fatalf("Ingest(%q): %v", name, err)
		}
		stored, err := f.events.GetByAddress(context.Background(), addr)
		if err != nil {
			t.Fatalf("GetByAddress: %v", err)
		}
		if stored.Status != domain.ResolutionPending {
			t.Errorf("name %q: expected PENDING, got %s", name, stored.Status)
		}
	}
}

func TestIngest_DuplicateAddressDiscarded(t *testing.T) {
	f := newRouterFixture()
	f.addKeyword(t, "tenant-1", "pepe")

	first, err := f.router.Ingest(context.Background(), LaunchEvent{
		Address:  addrSOL,
		Platform: domain.PlatformPumpFun,
		Name:     "Pepe",
	})
	if err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	if first != domain.DetectionAccepted {
		t.Fatalf("expected first ACCEPTED, got %s", first)
	}

	// Same address with a different payload is still a duplicate.
	second, err := f.router.Ingest(context.Background(), LaunchEvent{
		Address:  addrSOL,
		Platform: domain.PlatformLetsBonk,
		Name:     "Pepe Classic",
	})
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if second != domain.DetectionDuplicate {
		t.Fatalf("expected DUPLICATE, got %s", second)
	}

	if got := f.notifier.all(); len(got) != 1 {
		t.Errorf("expected a single dispatch, got %d", len(got))
	}
}

func TestIngest_InvalidAddressRejected(t *testing.T) {
	f := newRouterFixture()

	outcome, err := f.router.Ingest(context.Background(), LaunchEvent{
		Address:  "not-a-mint",
		Platform: domain.PlatformPumpFun,
		Name:     "Pepe",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if outcome != domain.DetectionRejected {
		t.Fatalf("expected REJECTED, got %s", outcome)
	}

	_, err = f.events.GetByAddress(context.Background(), "not-a-mint")
	if err == nil {
		t.Error("expected rejected event to be absent from storage")
	}
}

func TestIngest_MatchFansOutAcrossTenants(t *testing.T) {
	f := newRouterFixture()
	f.addKeyword(t, "tenant-1", "moon cat")
	f.addKeyword(t, "tenant-2", "cat")
	f.addKeyword(t, "tenant-3", "dog")

	if _, err := f.router.Ingest(context.Background(), LaunchEvent{
		Address:  addrBONK,
		Platform: domain.PlatformLetsBonk,
		Name:     "Moon Cat",
	}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	matches := f.notifier.all()
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	tenants := map[string]bool{}
	for _, m := range matches {
		tenants[m.Keyword.TenantID] = true
	}
	if !tenants["tenant-1"] || !tenants["tenant-2"] || tenants["tenant-3"] {
		t.Errorf("unexpected tenant fan-out: %v", tenants)
	}
}

func TestProcessResolved_RunsMatchPath(t *testing.T) {
	f := newRouterFixture()
	f.addKeyword(t, "tenant-1", "doge")

	name := "Doge Supreme"
	event := &domain.TokenEvent{
		Address:  addrUSDC,
		Platform: domain.PlatformPumpFun,
		RawName:  &name,
		Status:   domain.ResolutionResolved,
	}
	if err := f.router.ProcessResolved(context.Background(), event); err != nil {
		t.Fatalf("ProcessResolved: %v", err)
	}

	if got := f.notifier.all(); len(got) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(got))
	}
}

func TestRecorder_FlushWritesBufferedSamples(t *testing.T) {
	sink := memory.NewDetectionLogStore()
	rec := NewRecorder(sink)
	ctx := context.Background()

	rec.Record(ctx, &domain.DetectionSample{
		Address:    addrSOL,
		Platform:   domain.PlatformPumpFun,
		Outcome:    domain.DetectionAccepted,
		DetectedAt: 1000,
	})
	rec.Record(ctx, &domain.DetectionSample{
		Address:    addrBONK,
		Platform:   domain.PlatformLetsBonk,
		Outcome:    domain.DetectionAccepted,
		DetectedAt: 2000,
	})
	rec.Flush(ctx)

	counts, err := sink.CountByPlatform(ctx, 0, 3000)
	if err != nil {
		t.Fatalf("CountByPlatform: %v", err)
	}
	if counts[domain.PlatformPumpFun] != 1 || counts[domain.PlatformLetsBonk] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

var _ storage.DetectionLogStore = (*memory.DetectionLogStore)(nil)
