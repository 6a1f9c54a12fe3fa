// Package notify delivers keyword matches to tenant webhook channels.
// Delivery is asynchronous over a bounded worker pool and idempotent per
// (address, tenant, keyword) tuple.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alitto/pond/v2"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/observability"
	"solana-keyword-sniper/internal/storage"
)

const (
	defaultWorkers         = 8
	defaultDeliveryTimeout = 10 * time.Second
)

// Dispatcher sends match notifications to the owning tenant's endpoint.
type Dispatcher struct {
	bindings storage.BindingStore
	sent     storage.NotificationLogStore
	pool     pond.Pool
	client   *http.Client
	logger   *log.Logger
	now      func() int64
}

// NewDispatcher creates a Dispatcher with workers concurrent deliveries.
// Non-positive workers falls back to the default pool size.
func NewDispatcher(bindings storage.BindingStore, sent storage.NotificationLogStore, workers int) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Dispatcher{
		bindings: bindings,
		sent:     sent,
		pool:     pond.NewPool(workers),
		client:   &http.Client{Timeout: defaultDeliveryTimeout},
		logger:   log.New(os.Stdout, "[notify] ", log.LstdFlags|log.Lshortfile),
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// Dispatch queues one match for delivery and returns immediately. A tenant
// without a configured endpoint or a tuple already in the notification log
// is dropped without delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, m domain.Match) {
	d.pool.Submit(func() {
		if err := d.deliver(ctx, m); err != nil {
			d.logger.Printf("deliver to tenant %s for %s: %v",
				m.Keyword.TenantID, m.Event.Address, err)
		}
	})
}

// Stop drains queued deliveries and shuts the pool down.
func (d *Dispatcher) Stop() {
	d.pool.StopAndWait()
}

// deliver performs one delivery. The notification log row is claimed
// before the webhook call, so a crash mid-send loses at most one message
// and never double-pings a channel.
func (d *Dispatcher) deliver(ctx context.Context, m domain.Match) error {
	binding, err := d.bindings.Get(ctx, m.Keyword.TenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Matches for unbound tenants are silently dropped.
			return nil
		}
		return fmt.Errorf("load binding: %w", err)
	}

	err = d.sent.Insert(ctx, &domain.NotificationRecord{
		Address:     m.Event.Address,
		TenantID:    m.Keyword.TenantID,
		KeywordText: m.Keyword.Text,
		NotifiedAt:  d.now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			observability.RecordSuppressed()
			return nil
		}
		return fmt.Errorf("claim notification: %w", err)
	}

	start := time.Now()
	err = d.post(ctx, binding.Endpoint, buildPayload(m))
	observability.RecordDelivery(time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	d.logger.Printf("delivered %s match on %q to tenant %s",
		m.Event.Address, m.Keyword.Text, m.Keyword.TenantID)
	return nil
}

func (d *Dispatcher) post(ctx context.Context, endpoint string, payload discordPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
