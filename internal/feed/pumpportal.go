// Package feed streams new token launches from the PumpPortal WebSocket
// API and hands them to intake.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/intake"
	"solana-keyword-sniper/internal/observability"
)

// DefaultEndpoint is the public PumpPortal data stream.
const DefaultEndpoint = "wss://pumpportal.fun/api/data"

// Config configures feed client behavior.
type Config struct {
	// Endpoint is the WebSocket URL to connect to.
	Endpoint string
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultConfig returns default feed configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Ingestor receives parsed launch events, normally the intake router.
type Ingestor interface {
	Ingest(ctx context.Context, raw intake.LaunchEvent) (domain.DetectionOutcome, error)
}

// Client consumes the PumpPortal new-token stream.
type Client struct {
	config   Config
	ingestor Ingestor
	logger   *log.Logger
	now      func() int64
}

// NewClient creates a feed client delivering into ingestor.
func NewClient(config Config, ingestor Ingestor) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	return &Client{
		config:   config,
		ingestor: ingestor,
		logger:   log.New(os.Stdout, "[feed] ", log.LstdFlags|log.Lshortfile),
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// newTokenMessage is the PumpPortal payload for a token creation event.
// Confirmation messages carry only the message field and are skipped.
type newTokenMessage struct {
	Message string `json:"message"`
	Mint    string `json:"mint"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Pool    string `json:"pool"`
}

// Run connects, subscribes and consumes the stream until ctx is cancelled,
// reconnecting with exponential backoff on connection loss.
func (c *Client) Run(ctx context.Context) {
	delay := c.config.ReconnectDelay

	for {
		if ctx.Err() != nil {
			return
		}

		err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		c.logger.Printf("stream ended: %v, reconnecting in %s", err, delay)
		observability.DefaultMetrics.FeedReconnects.Inc()

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay = delay * 2
		if delay > c.config.MaxReconnectDelay {
			delay = c.config.MaxReconnectDelay
		}
	}
}

// consume runs one connection lifetime: dial, subscribe, read until error.
func (c *Client) consume(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, c.config.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteJSON(map[string]string{"method": "subscribeNewToken"}); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	c.logger.Printf("subscribed to new token stream at %s", c.config.Endpoint)

	// Close the connection when ctx is cancelled to unblock ReadMessage.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go c.pingLoop(ctx, conn)

	for {
		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		observability.DefaultMetrics.FeedMessages.Inc()
		c.handleMessage(ctx, message)
	}
}

// pingLoop sends ping frames while the connection lives.
func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage parses one stream message and forwards token creations to
// intake. Malformed messages are logged and skipped, never fatal.
func (c *Client) handleMessage(ctx context.Context, message []byte) {
	var msg newTokenMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Printf("skipping malformed message: %v", err)
		return
	}
	if msg.Mint == "" {
		// Subscription confirmations have no mint.
		return
	}

	event := intake.LaunchEvent{
		Address:    msg.Mint,
		Platform:   inferPlatform(msg.Mint, msg.Pool),
		Name:       msg.Name,
		DetectedAt: c.now(),
	}
	if _, err := c.ingestor.Ingest(ctx, event); err != nil {
		c.logger.Printf("ingest %s: %v", msg.Mint, err)
	}
}

// inferPlatform classifies a launch by its pool tag, falling back to the
// vanity mint suffix letsbonk.fun grinds into its addresses.
func inferPlatform(mint, pool string) domain.Platform {
	switch strings.ToLower(pool) {
	case "pump":
		return domain.PlatformPumpFun
	case "bonk":
		return domain.PlatformLetsBonk
	}
	if strings.HasSuffix(mint, "bonk") {
		return domain.PlatformLetsBonk
	}
	return domain.PlatformPumpFun
}
