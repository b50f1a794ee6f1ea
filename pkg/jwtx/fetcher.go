package jwtx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Fetcher keeps a KeySet in sync with a remote JWKS endpoint.
type Fetcher struct {
	URL    string
	Keys   *KeySet
	Client *http.Client
	Logger *slog.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewFetcher returns a fetcher for url that populates keys.
func NewFetcher(url string, keys *KeySet, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		URL:    url,
		Keys:   keys,
		Client: &http.Client{Timeout: 5 * time.Second},
		Logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Refresh fetches the JWKS once and swaps it into the KeySet.
func (f *Fetcher) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("jwtx: build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("jwtx: decode jwks: %w", err)
	}

	return f.Keys.ResetFromJWKS(jwks)
}

// Start refreshes on every interval until Stop. Failures keep the last
// good key set.
func (f *Fetcher) Start(interval time.Duration) {
	f.started = true
	go func() {
		defer close(f.doneCh)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				if err := f.Refresh(ctx); err != nil {
					f.Logger.Warn("jwks refresh failed", slog.String("error", err.Error()))
				}
				cancel()
			case <-f.stopCh:
				return
			}
		}
	}()
}

// Stop ends the refresh loop and waits for it to exit.
func (f *Fetcher) Stop() {
	if !f.started {
		return
	}
	close(f.stopCh)
	<-f.doneCh
}
