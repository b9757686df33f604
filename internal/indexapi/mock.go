package indexapi

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	mu sync.RWMutex

	// Mock behavior; when nil the mock answers 200 with an empty body
	SubmitFunc func(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)

	// Call tracking
	SubmitCalls int
	Requests    []SubmitRequest
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Submit records the request and delegates to SubmitFunc
func (m *MockClient) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	m.mu.Lock()
	m.SubmitCalls++
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}

	return &SubmitResponse{StatusCode: 200}, nil
}

// LastRequest returns the most recent request, if any
func (m *MockClient) LastRequest() (SubmitRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.Requests) == 0 {
		return SubmitRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

// Reset resets the mock state
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubmitCalls = 0
	m.Requests = nil
}

// AssertCalled asserts Submit was called the expected number of times
func (m *MockClient) AssertCalled(t interface{ Errorf(string, ...interface{}) }, expected int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.SubmitCalls != expected {
		t.Errorf("Submit called %d times, expected %d", m.SubmitCalls, expected)
	}
}
