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

const (
	dexScreenerBaseURL = "https://api.dexscreener.com/latest/dex/tokens"
	sourceHTTPRetries  = 2
)

// DexScreenerSource resolves names from the DexScreener pairs API.
type DexScreenerSource struct {
	baseURL string
	client  *http.Client
}

// NewDexScreenerSource creates a DexScreener source. timeout bounds each
// attempt; transient failures retry with exponential backoff.
func NewDexScreenerSource(timeout time.Duration) *DexScreenerSource {
	return &DexScreenerSource{
		baseURL: dexScreenerBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements NameSource.
func (s *DexScreenerSource) Name() string {
	return "dexscreener"
}

type dexScreenerResponse struct {
	Pairs []struct {
		BaseToken struct {
			Address string `json:"address"`
			Name    string `json:"name"`
			Symbol  string `json:"symbol"`
		} `json:"baseToken"`
	} `json:"pairs"`
}

// Resolve fetches the token's pairs and returns the base token name from
// the first pair whose base token is the queried mint.
func (s *DexScreenerSource) Resolve(ctx context.Context, address string) (string, error) {
	start := time.Now()
	defer func() {
		observability.RecordSourceLatency(s.Name(), time.Since(start).Seconds())
	}()

	var decoded dexScreenerResponse
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
			return fmt.Errorf("dexscreener returned status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decode dexscreener response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), sourceHTTPRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}

	for _, pair := range decoded.Pairs {
		if pair.BaseToken.Address != address {
			continue
		}
		if domain.IsPlaceholderName(pair.BaseToken.Name) {
			continue
		}
		return pair.BaseToken.Name, nil
	}
	return "", ErrNoName
}
