// Package indexapi talks to the IndexNow HTTP API.
package indexapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the shared IndexNow endpoint, which forwards
	// submissions to every participating search engine.
	DefaultEndpoint = "https://api.indexnow.org/indexnow"

	// DefaultTimeout bounds a single submission round trip.
	DefaultTimeout = 10 * time.Second
)

// Client submits URL batches to IndexNow.
type Client interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
}

// Config holds transport configuration
type Config struct {
	// Endpoint overrides DefaultEndpoint
	Endpoint string

	// Timeout for the whole request/response exchange
	Timeout time.Duration

	// HTTPClient replaces the internally built client when set.
	// Its own Timeout is left untouched.
	HTTPClient *http.Client
}

// HTTPClient implements Client over net/http
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPClient creates a new IndexNow HTTP client
func NewHTTPClient(config Config) *HTTPClient {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Endpoint returns the URL submissions are posted to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Submit posts a single batch. There is no retry: any status code is
// returned to the caller untouched, and only transport failures produce
// an error.
func (c *HTTPClient) Submit(ctx context.Context, submitReq SubmitRequest) (*SubmitResponse, error) {
	body, err := EncodeRequest(submitReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &SubmitResponse{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}

// EncodeRequest renders the request body. HTML escaping is disabled so
// query strings keep their literal '&'.
func EncodeRequest(req SubmitRequest) ([]byte, error) {
	if req.URLList == nil {
		req.URLList = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// IsAccepted reports whether an IndexNow status code means success.
// IndexNow answers 200 when the key is already verified and 202 while
// verification is pending; both count as accepted.
func IsAccepted(statusCode int) bool {
	return statusCode == http.StatusOK || statusCode == http.StatusAccepted
}

// IsTimeout reports whether err was caused by a connect or read timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
