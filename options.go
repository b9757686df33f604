package indexnow

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/OrlandoBitencourt/indexnow/internal/filter"
	"github.com/OrlandoBitencourt/indexnow/internal/indexapi"
	"github.com/OrlandoBitencourt/indexnow/internal/storage"
	"github.com/OrlandoBitencourt/indexnow/internal/telemetry"
)

// DefaultEndpoint is where submissions are posted unless WithEndpoint is used.
const DefaultEndpoint = indexapi.DefaultEndpoint

// DefaultTimeout bounds a single submission round trip.
const DefaultTimeout = indexapi.DefaultTimeout

// Option configures a Client.
type Option func(*clientConfig) error

// clientConfig holds internal configuration.
type clientConfig struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	api        indexapi.Client

	telemetry telemetry.Provider

	filter *filter.Filter

	dedupWindow  time.Duration
	dedupMaxURLs int64

	queue Queue
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}
}

func (c *clientConfig) transport() indexapi.Client {
	if c.api != nil {
		return c.api
	}
	return indexapi.NewHTTPClient(indexapi.Config{
		Endpoint:   c.endpoint,
		Timeout:    c.timeout,
		HTTPClient: c.httpClient,
	})
}

func (c *clientConfig) recentStorage() (*storage.MemoryStorage, error) {
	if c.dedupWindow <= 0 {
		return nil, nil
	}

	cfg := storage.DefaultConfig()
	cfg.DefaultTTL = c.dedupWindow
	if c.dedupMaxURLs > 0 {
		cfg.MaxCost = c.dedupMaxURLs
		cfg.NumCounters = c.dedupMaxURLs * 10
	}
	return storage.NewMemoryStorage(cfg)
}

// WithEndpoint overrides the IndexNow endpoint. Search engines also
// expose their own, e.g. "https://www.bing.com/indexnow".
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) error {
		if endpoint == "" {
			return fmt.Errorf("endpoint cannot be empty")
		}
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("endpoint must be an absolute URL: %s", endpoint)
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithTimeout sets the upper bound for a single submission.
// Default: 10 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient uses hc for requests. The submission timeout still applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithOpenTelemetry records spans and metrics through the globally
// registered OpenTelemetry providers.
func WithOpenTelemetry() Option {
	return func(c *clientConfig) error {
		provider, err := telemetry.NewOTel()
		if err != nil {
			return fmt.Errorf("failed to initialise telemetry: %w", err)
		}
		c.telemetry = provider
		return nil
	}
}

// WithURLFilter only submits URLs for which expression is true. The
// expression is compiled immediately and sees url, scheme, host, path
// and query.
//
// Example: indexnow.WithURLFilter(`host == "example.com" && !(path startsWith "/admin")`)
func WithURLFilter(expression string) Option {
	return func(c *clientConfig) error {
		f, err := filter.New(expression)
		if err != nil {
			return err
		}
		c.filter = f
		return nil
	}
}

// WithDedupWindow skips URLs that were accepted within window.
// Only accepted submissions are remembered.
func WithDedupWindow(window time.Duration) Option {
	return func(c *clientConfig) error {
		if window <= 0 {
			return fmt.Errorf("dedup window must be positive")
		}
		c.dedupWindow = window
		return nil
	}
}

// WithDedupCapacity caps how many URLs the dedup window remembers.
func WithDedupCapacity(maxURLs int64) Option {
	return func(c *clientConfig) error {
		if maxURLs <= 0 {
			return fmt.Errorf("dedup capacity must be positive")
		}
		c.dedupMaxURLs = maxURLs
		return nil
	}
}

// WithQueue enables SubmitAsync using q.
func WithQueue(q Queue) Option {
	return func(c *clientConfig) error {
		if q == nil {
			return fmt.Errorf("queue cannot be nil")
		}
		c.queue = q
		return nil
	}
}

// withTransport replaces the HTTP transport; used by tests.
func withTransport(api indexapi.Client) Option {
	return func(c *clientConfig) error {
		c.api = api
		return nil
	}
}
