package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a listing request when the caller does not configure one.
const DefaultTimeout = 30 * time.Second

// Fetcher performs paced GET requests with a fixed user agent.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// FetcherOpts contains options for creating a [Fetcher].
type FetcherOpts struct {
	Client            *http.Client // Defaults to a client with [DefaultTimeout]
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond float64 // Zero disables pacing
}

// NewFetcher creates a [Fetcher] from opts.
func NewFetcher(opts FetcherOpts) *Fetcher {
	if opts.Client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		opts.Client = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Fetcher{client: opts.Client, limiter: limiter, userAgent: opts.UserAgent}
}

// Get fetches url and returns the body. Any status other than 200 is an [ErrUnexpectedStatus].
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
