// Package proxyfetch performs HTTP GETs with a CORS-relay fallback chain.
// The original deployment sat behind restricted origins and leaned on public
// relays whenever a direct request could not be made; the same ladder is kept
// here so the pipeline behaves identically when outbound access is filtered.
package proxyfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iby-analytics/odds-core/pkg/logger"
)

// DefaultRelays are the public CORS relays tried in order. Only the first is
// used unless the caller explicitly asks for the full chain.
var DefaultRelays = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?",
	"https://api.codetabs.com/v1/proxy?quest=",
}

// Response is the raw HTTP outcome of a fetch. Non-2xx statuses are returned
// here rather than as errors so the caller can classify them.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// FetchError means every transport path (direct and relayed) was exhausted
// without obtaining an HTTP response.
type FetchError struct {
	URL      string
	Attempts int
	LastErr  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("all fetch paths exhausted for %s after %d attempts: %v", e.URL, e.Attempts, e.LastErr)
}

func (e *FetchError) Unwrap() error {
	return e.LastErr
}

// Options tunes a single fetch.
type Options struct {
	// Headers are added to the direct request. Relays strip custom headers,
	// which is acceptable for query-parameter-authenticated targets only.
	Headers map[string]string
	// AllRelays walks the whole relay chain instead of stopping after the
	// first relay.
	AllRelays bool
}

// Config holds construction-time settings for a Fetcher.
type Config struct {
	Timeout time.Duration
	Relays  []string
	// ForceProxy skips the direct attempt entirely, for deployments where
	// same-origin network access is known to be restricted.
	ForceProxy bool
}

// DefaultConfig returns the settings used in production: 15 second deadline,
// public relay chain, direct attempt first.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Relays:  DefaultRelays,
	}
}

// Fetcher issues GETs with a per-request deadline and relay fallback. It is
// stateless beyond its configuration and safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	relays     []string
	forceProxy bool
	timeout    time.Duration
	logger     *logger.Logger
}

// New creates a Fetcher. A nil config gets defaults.
func New(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	relays := cfg.Relays
	if len(relays) == 0 {
		relays = DefaultRelays
	}

	return &Fetcher{
		client:     &http.Client{},
		relays:     relays,
		forceProxy: cfg.ForceProxy,
		timeout:    cfg.Timeout,
		logger:     logger.New("proxy-fetcher"),
	}
}

// Fetch GETs rawURL, first directly, then through the relay chain. A non-2xx
// response is still a response: it is returned for classification upstream.
// Fatal statuses (401, 429, 5xx) are never retried through a relay since the
// relay would just replay the same failure.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{}
	}

	attempts := 0
	var lastErr error

	if !f.forceProxy {
		attempts++
		resp, err := f.get(ctx, rawURL, opts.Headers)
		if err == nil {
			if resp.StatusCode < 300 || isFatalStatus(resp.StatusCode) {
				return resp, nil
			}
			// Non-fatal upstream rejection: give the relay path one shot
			// before handing the status back.
			lastErr = fmt.Errorf("direct request returned status %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		f.logger.Debug().
			Err(lastErr).
			Str("url", rawURL).
			Str("action", "direct_fetch_failed").
			Msg("Direct request failed, falling back to relay")
	}

	relays := f.relays[:1]
	if opts.AllRelays {
		relays = f.relays
	}

	var lastResp *Response
	for _, relay := range relays {
		attempts++
		proxied := relay + url.QueryEscape(rawURL)

		// Relays cannot forward custom headers.
		resp, err := f.get(ctx, proxied, nil)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode < 300 || isFatalStatus(resp.StatusCode) {
			return resp, nil
		}
		lastResp = resp
		lastErr = fmt.Errorf("relay request returned status %d", resp.StatusCode)
	}

	// A relayed HTTP rejection still carries a classifiable status code.
	if lastResp != nil {
		return lastResp, nil
	}

	return nil, &FetchError{URL: rawURL, Attempts: attempts, LastErr: lastErr}
}

// get performs one GET with the fetcher's deadline applied through the
// context, so an abandoned attempt is actually cancelled at the transport
// level rather than raced against a timer.
func (f *Fetcher) get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.LogAPICall(http.MethodGet, rawURL, 0, time.Since(start), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	f.logger.LogAPICall(http.MethodGet, rawURL, resp.StatusCode, time.Since(start), nil)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

// isFatalStatus mirrors the orchestrator's classification: statuses where a
// different transport path cannot change the outcome.
func isFatalStatus(code int) bool {
	return code == http.StatusUnauthorized ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}
