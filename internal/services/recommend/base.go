package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"AgriPull/pkg/config"
	xhttp "AgriPull/pkg/http"
)

// HTTPServiceBase holds the client and base URL shared by collaborator
// HTTP clients.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	backoff time.Duration
}

// NewHTTPServiceBase builds an HTTP client with timeout and base URL from config.
func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
	timeout := cfg.Recommender.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(cfg.Recommender.URL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent("agripull-recommend")),
		backoff: 50 * time.Millisecond,
	}
}

// Configured reports whether a base URL is set.
func (b *HTTPServiceBase) Configured() bool { return b.baseURL != "" }

// PostJSON posts payload to path under baseURL and decodes JSON into dest.
// Up to attempts tries are made for retryable failures, backing off
// linearly between them.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload, dest interface{}, attempts int) error {
	if !b.Configured() {
		return ErrNotConfigured
	}
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.client.PostJSON(ctx, b.baseURL+path, payload, dest)
		if err == nil || !xhttp.Retryable(err) || i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * b.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}
