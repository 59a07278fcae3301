package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrExhausted is returned when every attempt of a fetch failed.
	ErrExhausted = errors.New("retry budget exhausted")
)

const (
	// mobileUserAgent is the baseline identity. Retailer search pages
	// served to mobile Safari carry the same listing markup but trip
	// fewer bot checks than a headless default.
	mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1"

	// fallbackUserAgent is swapped in after a 403.
	fallbackUserAgent = "Mozilla/5.0 (Linux; Android 10; SM-G981B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/80.0.3987.162 Mobile Safari/537.36"
)

func baselineHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                mobileUserAgent,
		"Accept-Language":           "en-IN,en-US;q=0.9,en;q=0.8",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"sec-ch-ua":                 `"Not A(Brand";v="99", "Google Chrome";v="121", "Chromium";v="121"`,
		"sec-ch-ua-mobile":          "?1",
		"sec-ch-ua-platform":        `"Android"`,
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Upgrade-Insecure-Requests": "1",
		"Cache-Control":             "max-age=0",
	}
}

// retryState tracks one fetch call's attempt sequence. Header
// mutation after a block response lives here, not on the shared
// client, so concurrent fetches cannot corrupt each other.
type retryState struct {
	attempt int
	headers map[string]string
}

func newRetryState() *retryState {
	return &retryState{headers: baselineHeaders()}
}

func (s *retryState) onForbidden() {
	s.headers["User-Agent"] = fallbackUserAgent
}

// Options controls the retry policy of a Fetcher.
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

func defaultOptions() Options {
	return Options{
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		Timeout:    15 * time.Second,
	}
}

// Fetcher issues retailer search-page requests with retries and
// adaptive header rotation. Safe for concurrent use; all mutable
// per-call state is kept in a retryState value.
type Fetcher struct {
	client *resty.Client
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Fetcher {
	defaults := defaultOptions()
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaults.MaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaults.RetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetDisableWarn(true)

	return &Fetcher{
		client: client,
		opts:   opts,
		logger: logger.With("component", "fetcher"),
	}
}

// Fetch GETs url with params and returns the response body. It
// retries up to MaxRetries total attempts, sleeping RetryDelay before
// each retry. A 403 swaps the user agent for the remainder of the
// call and consumes an attempt like any other failure. All failure
// modes collapse into a wrapped ErrExhausted; Fetch never panics.
func (f *Fetcher) Fetch(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	state := newRetryState()
	var lastErr error

	for state.attempt = 0; state.attempt < f.opts.MaxRetries; state.attempt++ {
		if state.attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrExhausted, ctx.Err())
			case <-time.After(f.opts.RetryDelay):
			}
		}

		resp, err := f.client.R().
			SetContext(ctx).
			SetHeaders(state.headers).
			SetQueryParams(params).
			Get(url)

		if err != nil {
			lastErr = err
			f.logger.Warn("request failed",
				"url", url,
				"attempt", state.attempt+1,
				"max_attempts", f.opts.MaxRetries,
				"error", err)
			continue
		}

		if resp.StatusCode() == 403 {
			lastErr = fmt.Errorf("status %d", resp.StatusCode())
			f.logger.Warn("access forbidden, rotating user agent",
				"url", url,
				"attempt", state.attempt+1)
			state.onForbidden()
			continue
		}

		if resp.IsError() {
			lastErr = fmt.Errorf("status %d", resp.StatusCode())
			f.logger.Warn("unexpected status",
				"url", url,
				"status", resp.StatusCode(),
				"attempt", state.attempt+1)
			continue
		}

		return resp.Body(), nil
	}

	f.logger.Error("max retries reached", "url", url, "error", lastErr)
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrExhausted, lastErr)
	}
	return nil, ErrExhausted
}
