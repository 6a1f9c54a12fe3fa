// Package main runs the unified keyword sniper service:
// - Feed (continuous): PumpPortal websocket into intake
// - Resolver (scheduled): name resolution sweep over pending events
// - Dispatch (async): webhook delivery of keyword matches
// - HTTP: health, status, metrics and the tenant keyword API
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"solana-keyword-sniper/internal/feed"
	"solana-keyword-sniper/internal/intake"
	"solana-keyword-sniper/internal/keywords"
	"solana-keyword-sniper/internal/match"
	"solana-keyword-sniper/internal/notify"
	"solana-keyword-sniper/internal/resolver"
	"solana-keyword-sniper/internal/storage"
	chstore "solana-keyword-sniper/internal/storage/clickhouse"
	"solana-keyword-sniper/internal/storage/memory"
	"solana-keyword-sniper/internal/storage/migrations"
	pgstore "solana-keyword-sniper/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	events    storage.TokenEventStore
	keywords  storage.KeywordStore
	undo      storage.UndoRecordStore
	bindings  storage.BindingStore
	notifLog  storage.NotificationLogStore
	detection storage.DetectionLogStore // nil when no sink configured
}

func main() {
	// Load .env file if exists; system env vars win.
	_ = godotenv.Load()

	feedEndpoint := flag.String("feed-endpoint", envOr("FEED_ENDPOINT", feed.DefaultEndpoint), "Launch feed WebSocket endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional analytics sink)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	httpAddr := flag.String("http-addr", envOr("HTTP_ADDR", ":8080"), "HTTP address for health/status/metrics/API")
	threshold := flag.Float64("match-threshold", match.DefaultThreshold, "Keyword overlap match threshold")
	resolveInterval := flag.Duration("resolve-interval", resolver.DefaultInterval, "Name resolution sweep interval")
	resolveGrace := flag.Duration("resolve-grace", resolver.DefaultGrace, "Delay before first resolution attempt")
	resolveMaxAge := flag.Duration("resolve-max-age", resolver.DefaultMaxAge, "Age after which pending events are abandoned")
	resolveMaxRetries := flag.Int("resolve-max-retries", resolver.DefaultMaxRetries, "Resolution attempts before giving up")
	resolveBatchLimit := flag.Int("resolve-batch-limit", resolver.DefaultBatchLimit, "Max pending events per sweep")
	sourceTimeout := flag.Duration("source-timeout", 10*time.Second, "Per-call timeout for name sources")
	notifyWorkers := flag.Int("notify-workers", 8, "Concurrent webhook deliveries")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Pipeline wiring.
	claims := intake.NewAddressClaims()
	matcher := match.New(*threshold)
	dispatcher := notify.NewDispatcher(stores.bindings, stores.notifLog, *notifyWorkers)

	var recorder *intake.Recorder
	if stores.detection != nil {
		recorder = intake.NewRecorder(stores.detection)
	}

	router := intake.NewRouter(stores.events, stores.keywords, matcher, dispatcher, claims, recorder)

	sources := []resolver.NameSource{
		resolver.NewDexScreenerSource(*sourceTimeout),
		resolver.NewLetsBonkSource(*sourceTimeout),
	}
	nameResolver := resolver.New(stores.events, sources, router, claims, resolver.Config{
		Interval:   *resolveInterval,
		Grace:      *resolveGrace,
		MaxAge:     *resolveMaxAge,
		MaxRetries: *resolveMaxRetries,
		BatchLimit: *resolveBatchLimit,
	})

	feedConfig := feed.DefaultConfig()
	feedConfig.Endpoint = *feedEndpoint
	feedClient := feed.NewClient(feedConfig, router)

	keywordService := keywords.NewService(stores.keywords, stores.undo)

	server := &Server{
		keywords: keywordService,
		bindings: stores.bindings,
		logger:   logger,
		started:  time.Now(),
	}

	// Handle shutdown signals.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		}
	}()

	go server.startHTTPServer(ctx, *httpAddr)

	logger.Printf("Starting: feed=%s threshold=%.2f sweep=%s", *feedEndpoint, matcher.Threshold(), *resolveInterval)

	go nameResolver.Run(ctx)
	if recorder != nil {
		go recorder.Run(ctx)
	}
	feedClient.Run(ctx)

	// Feed has stopped; drain in-flight notifications.
	dispatcher.Stop()
	logger.Println("Shutdown complete")
}

// envOr returns the env var value or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			events:    memory.NewTokenEventStore(),
			keywords:  memory.NewKeywordStore(),
			undo:      memory.NewUndoRecordStore(),
			bindings:  memory.NewBindingStore(),
			notifLog:  memory.NewNotificationLogStore(),
			detection: memory.NewDetectionLogStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	stores := &allStores{
		events:   pgstore.NewTokenEventStore(pool),
		keywords: pgstore.NewKeywordStore(pool),
		undo:     pgstore.NewUndoRecordStore(pool),
		bindings: pgstore.NewBindingStore(pool),
		notifLog: pgstore.NewNotificationLogStore(pool),
	}

	var chConn *chstore.Conn
	if clickhouseDSN != "" {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		stores.detection = chstore.NewDetectionLogStore(chConn)
	}

	cleanup := func() {
		if chConn != nil {
			chConn.Close()
		}
		pool.Close()
	}
	return stores, cleanup, nil
}

// startHTTPServer serves health, status, metrics and the tenant API until
// ctx is cancelled.
func (s *Server) startHTTPServer(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("HTTP server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}
