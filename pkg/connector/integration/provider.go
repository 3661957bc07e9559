package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/queuegate-go/pkg/config"
)

// Provider keeps a cached copy of the customer's published integration
// configuration, refreshed on a fixed interval. Reads are lock-free and serve
// the last good value; a refresh that keeps failing never surfaces to request
// handling — the stale config is served indefinitely.
type Provider struct {
	customerID string
	apiKey     string
	configURL  string

	client  *http.Client
	logger  *logging.ChanneledLogger
	group   singleflight.Group
	cached  atomic.Pointer[CustomerIntegration]
	stop    chan struct{}
	stopped sync.Once
}

// NewProvider creates a provider for the customer's secured config endpoint
// and starts the background refresh loop. Close releases the loop.
func NewProvider(customerID, apiKey string, logger *logging.ChanneledLogger) *Provider {
	p := &Provider{
		customerID: customerID,
		apiKey:     apiKey,
		configURL:  fmt.Sprintf("https://%s.queue-it.net/status/integrationconfig/secure/%s", customerID, customerID),
		client:     &http.Client{Timeout: config.ConfigDownloadTimeout},
		logger:     logger,
		stop:       make(chan struct{}),
	}

	go p.refreshLoop()
	return p
}

// GetCachedIntegrationConfig returns the last good configuration. Before the
// first successful download it blocks on an inline fetch; if that fails it
// returns nil and the caller should pass the request through untouched.
func (p *Provider) GetCachedIntegrationConfig() *CustomerIntegration {
	if cached := p.cached.Load(); cached != nil {
		return cached
	}

	// Collapse concurrent first-read misses into one download.
	result, _, _ := p.group.Do("refresh", func() (any, error) {
		p.refresh()
		return p.cached.Load(), nil
	})
	if cfg, ok := result.(*CustomerIntegration); ok {
		return cfg
	}
	return nil
}

// Close stops the background refresh loop.
func (p *Provider) Close() {
	p.stopped.Do(func() { close(p.stop) })
}

func (p *Provider) refreshLoop() {
	ticker := time.NewTicker(config.ConfigRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.group.Do("refresh", func() (any, error) {
				p.refresh()
				return p.cached.Load(), nil
			})
		case <-p.stop:
			return
		}
	}
}

// refresh downloads the configuration with bounded retry: a fixed attempt
// count with a constant backoff between attempts. On sustained failure the
// previous cached value is left in place.
func (p *Provider) refresh() {
	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(config.ConfigRetryBackoff),
		uint64(config.ConfigRefreshMaxAttempts-1),
	)

	var downloaded *CustomerIntegration
	err := backoff.Retry(func() error {
		cfg, err := p.download()
		if err != nil {
			if p.logger != nil {
				p.logger.Integration().Warn("Integration config download failed", "url", p.configURL, "error", err)
			}
			return err
		}
		downloaded = cfg
		return nil
	}, policy)
	if err != nil {
		if p.logger != nil {
			p.logger.Integration().Error("Integration config refresh gave up, serving stale config",
				"customerId", p.customerID, "attempts", config.ConfigRefreshMaxAttempts)
		}
		return
	}

	previous := p.cached.Swap(downloaded)
	if p.logger != nil && (previous == nil || previous.Version != downloaded.Version) {
		p.logger.Integration().Info("Integration config refreshed",
			"customerId", p.customerID, "version", downloaded.Version, "integrations", len(downloaded.Integrations))
	}
}

func (p *Provider) download() (*CustomerIntegration, error) {
	req, err := http.NewRequest(http.MethodGet, p.configURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading integration config", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var cfg CustomerIntegration
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode integration config: %w", err)
	}
	return &cfg, nil
}
