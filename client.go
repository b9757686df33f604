// Package indexnow submits URLs to the IndexNow API and serves the key
// file search engines use to verify domain ownership.
package indexnow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/OrlandoBitencourt/indexnow/internal/filter"
	"github.com/OrlandoBitencourt/indexnow/internal/indexapi"
	"github.com/OrlandoBitencourt/indexnow/internal/storage"
	"github.com/OrlandoBitencourt/indexnow/internal/telemetry"
)

// Client submits URLs to IndexNow. It keeps no per-call state and is
// safe for concurrent use.
type Client struct {
	config    *Config
	api       indexapi.Client
	timeout   time.Duration
	telemetry telemetry.Provider
	filter    *filter.Filter
	recent    storage.Storage
	dedupTTL  time.Duration
	queue     Queue
}

// New creates a client reading cfg at call time. A nil cfg follows the
// process-wide Configuration() on every call, so Configure and
// ResetConfiguration apply to existing clients.
//
// Example:
//
//	client, err := indexnow.New(indexnow.ConfigFromEnv(),
//	    indexnow.WithTimeout(5*time.Second),
//	)
func New(cfg *Config, opts ...Option) (*Client, error) {
	cc := defaultClientConfig()
	for _, opt := range opts {
		if err := opt(&cc); err != nil {
			return nil, err
		}
	}

	provider := cc.telemetry
	if provider == nil {
		provider = telemetry.NewNoOp()
	}

	c := &Client{
		config:    cfg,
		api:       cc.transport(),
		timeout:   cc.timeout,
		telemetry: provider,
		filter:    cc.filter,
		dedupTTL:  cc.dedupWindow,
		queue:     cc.queue,
	}

	recent, err := cc.recentStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to create dedup storage: %w", err)
	}
	if recent != nil {
		c.recent = recent
	}

	if d, ok := cc.queue.(interface{ Depth() int }); ok {
		if err := provider.ObserveQueueDepth(d.Depth); err != nil {
			return nil, fmt.Errorf("failed to observe queue depth: %w", err)
		}
	}

	return c, nil
}

// Config returns the configuration the client currently reads from.
func (c *Client) Config() *Config {
	if c.config == nil {
		return Configuration()
	}
	return c.config
}

// Close releases the dedup storage, if any.
func (c *Client) Close() error {
	if c.recent != nil {
		return c.recent.Close()
	}
	return nil
}

// Submit sends urls to IndexNow in a single request. It never panics or
// returns an error on its own: every failure is logged and reported in
// the Result.
//
// Nothing is sent, and the result is OutcomeNotAttempted, when the
// configuration is disabled, urls is empty, or no host can be derived.
// A missing API key yields OutcomeInvalidConfig. Otherwise the outcome
// reflects the response: accepted for 200/202, rejected for any other
// status, transport failed for timeouts and connection errors.
func (c *Client) Submit(ctx context.Context, urls ...string) Result {
	start := time.Now()
	ctx, span := c.telemetry.StartSpan(ctx, "indexnow.submit",
		telemetry.Int("indexnow.input_count", len(urls)))
	defer span.End()

	result := c.submit(ctx, urls)

	span.SetAttributes(
		telemetry.String("indexnow.outcome", result.Outcome.String()),
		telemetry.Int("indexnow.url_count", result.URLCount),
		telemetry.Bool("indexnow.accepted", result.Accepted()),
	)
	if result.StatusCode != 0 {
		span.SetAttributes(telemetry.Int("http.status_code", result.StatusCode))
	}
	if result.Err != nil {
		span.RecordError(result.Err)
	}
	c.telemetry.RecordSubmission(ctx, result.Outcome.String(), result.URLCount, time.Since(start))

	return result
}

func (c *Client) submit(ctx context.Context, urls []string) Result {
	cfg := c.Config()

	if cfg.Disabled {
		return notAttempted(ReasonDisabled, nil)
	}

	if !cfg.Valid() {
		cfg.logError("IndexNow configuration is invalid. API key is required.")
		return Result{
			Outcome: OutcomeInvalidConfig,
			Err:     &ConfigError{Field: "api_key", Message: "API key is required"},
		}
	}

	urlList := normalizeURLs(urls)
	if len(urlList) == 0 {
		return notAttempted(ReasonEmptyInput, nil)
	}

	urlList = c.eligible(ctx, cfg, urlList)
	if len(urlList) == 0 {
		cfg.logInfo("No URLs left to submit after filtering")
		return notAttempted(ReasonFiltered, nil)
	}

	host, err := determineHost(cfg, urlList[0])
	if err != nil {
		var invalid *InvalidURLError
		if errors.As(err, &invalid) {
			cfg.logError(fmt.Sprintf("Invalid URL provided: %s. Error: %v", invalid.URL, invalid.Err))
		}
		return notAttempted(ReasonInvalidURL, err)
	}

	payload := indexapi.SubmitRequest{
		Host:    host,
		Key:     cfg.APIKey,
		URLList: urlList,
	}

	return c.send(ctx, cfg, payload)
}

// normalizeURLs drops empty strings and copies the rest in order.
func normalizeURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// eligible applies the URL filter and the dedup window.
func (c *Client) eligible(ctx context.Context, cfg *Config, urls []string) []string {
	if c.filter == nil && c.recent == nil {
		return urls
	}

	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if c.filter != nil {
			allowed, err := c.filter.Allow(u)
			if err != nil {
				cfg.logError(err.Error())
				continue
			}
			if !allowed {
				continue
			}
		}
		if c.recent != nil && c.recent.Seen(ctx, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func determineHost(cfg *Config, sampleURL string) (string, error) {
	if cfg.Host != "" {
		return cfg.Host, nil
	}

	u, err := url.Parse(sampleURL)
	if err != nil {
		return "", &InvalidURLError{URL: sampleURL, Err: err}
	}

	host := hostWithoutPort(u.Host)
	if host == "" {
		return "", &InvalidURLError{URL: sampleURL, Err: errors.New("no host component")}
	}

	return host, nil
}

// hostWithoutPort strips the port from an authority host, keeping the
// brackets of IPv6 literals.
func hostWithoutPort(host string) string {
	if i := strings.LastIndexByte(host, ':'); i > strings.LastIndexByte(host, ']') {
		return host[:i]
	}
	return host
}

func (c *Client) send(ctx context.Context, cfg *Config, payload indexapi.SubmitRequest) (result Result) {
	count := len(payload.URLList)

	defer func() {
		if r := recover(); r != nil {
			cfg.logError(fmt.Sprintf("Unexpected error when submitting to IndexNow: %v", r))
			result = Result{
				Outcome:  OutcomeTransportFailed,
				URLCount: count,
				Err:      &TransportError{Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Submit(reqCtx, payload)
	if err != nil {
		if indexapi.IsTimeout(err) {
			cfg.logError(fmt.Sprintf("Request timeout when submitting to IndexNow: %v", err))
			return Result{
				Outcome:  OutcomeTransportFailed,
				URLCount: count,
				Err:      &TransportError{Timeout: true, Err: err},
			}
		}

		cfg.logError(fmt.Sprintf("Unexpected error when submitting to IndexNow: %v", err))
		return Result{
			Outcome:  OutcomeTransportFailed,
			URLCount: count,
			Err:      &TransportError{Err: err},
		}
	}

	if !resp.Accepted() {
		cfg.logError(fmt.Sprintf("IndexNow API returned %d: %s", resp.StatusCode, resp.Body))
		return Result{
			Outcome:    OutcomeRejected,
			URLCount:   count,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        &RejectedError{StatusCode: resp.StatusCode, Body: resp.Body},
		}
	}

	cfg.logInfo(fmt.Sprintf("Successfully submitted %d URLs to IndexNow (%d)", count, resp.StatusCode))

	if c.recent != nil {
		if err := c.recent.Mark(ctx, payload.URLList, c.dedupTTL); err != nil {
			cfg.logError(fmt.Sprintf("Failed to remember submitted URLs: %v", err))
		}
	}

	return Result{
		Outcome:    OutcomeAccepted,
		URLCount:   count,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
}

// Submit sends urls using the process-wide Configuration().
func Submit(ctx context.Context, urls ...string) Result {
	client, err := New(nil)
	if err != nil {
		return Result{Outcome: OutcomeTransportFailed, Err: err}
	}
	return client.Submit(ctx, urls...)
}
