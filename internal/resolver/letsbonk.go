package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/observability"
)

const letsBonkBaseURL = "https://api.letsbonk.fun/token"

// LetsBonkSource resolves names from the letsbonk.fun token API. It knows
// about bonk-suffixed mints that DexScreener has not indexed yet.
type LetsBonkSource struct {
	baseURL string
	client  *http.Client
}

// NewLetsBonkSource creates a letsbonk.fun source.
func NewLetsBonkSource(timeout time.Duration) *LetsBonkSource {
	return &LetsBonkSource{
		baseURL: letsBonkBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements NameSource.
func (s *LetsBonkSource) Name() string {
	return "letsbonk"
}

type letsBonkResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Resolve fetches the token record and returns its name.
func (s *LetsBonkSource) Resolve(ctx context.Context, address string) (string, error) {
	start := time.Now()
	defer func() {
		observability.RecordSourceLatency(s.Name(), time.Since(start).Seconds())
	}()

	var decoded letsBonkResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+address, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(ErrNoName)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("letsbonk returned status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decode letsbonk response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), sourceHTTPRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}

	if domain.IsPlaceholderName(decoded.Name) {
		return "", ErrNoName
	}
	return decoded.Name, nil
}
