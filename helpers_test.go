package indexnow

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memoryLogger records log lines for assertions
type memoryLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *memoryLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *memoryLogger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *memoryLogger) Infos() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...)
}

func (l *memoryLogger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

// recordedRequest is one request seen by MockIndexNowServer
type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// MockIndexNowServer is a mock IndexNow HTTP endpoint for testing
type MockIndexNowServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	delay    time.Duration
	requests []recordedRequest
}

// NewMockIndexNowServer creates a server answering 200 until told otherwise
func NewMockIndexNowServer(t *testing.T) *MockIndexNowServer {
	t.Helper()

	mock := &MockIndexNowServer{status: http.StatusOK}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		status, respBody, delay := mock.status, mock.body, mock.delay
		mock.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		w.WriteHeader(status)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(mock.Close)

	return mock
}

// Endpoint returns the URL to pass to WithEndpoint
func (m *MockIndexNowServer) Endpoint() string {
	return m.URL + "/indexnow"
}

// Respond sets the status and body for subsequent requests
func (m *MockIndexNowServer) Respond(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.body = body
}

// Delay makes the server wait before answering
func (m *MockIndexNowServer) Delay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Requests returns a copy of everything received so far
func (m *MockIndexNowServer) Requests() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// Payload decodes the body of request i
func (m *MockIndexNowServer) Payload(t *testing.T, i int) map[string]interface{} {
	t.Helper()

	reqs := m.Requests()
	require.Greater(t, len(reqs), i)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reqs[i].Body), &payload))
	return payload
}

// newTestConfig returns a valid configuration with a recording logger
func newTestConfig() (*Config, *memoryLogger) {
	logger := &memoryLogger{}
	cfg := NewConfig()
	cfg.APIKey = "test-api-key"
	cfg.Logger = logger
	return cfg, logger
}

// newTestClient creates a client pointed at server
func newTestClient(t *testing.T, cfg *Config, server *MockIndexNowServer, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithEndpoint(server.Endpoint()), WithTimeout(2 * time.Second)}, opts...)
	client, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}
