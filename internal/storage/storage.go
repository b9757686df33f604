// Package storage remembers recently accepted URLs so repeat submissions
// inside a window can be skipped.
package storage

import (
	"context"
	"time"
)

// Storage tracks URLs that IndexNow recently accepted
type Storage interface {
	// Seen reports whether url was marked and has not expired
	Seen(ctx context.Context, url string) bool

	// Mark records urls as submitted for ttl
	Mark(ctx context.Context, urls []string, ttl time.Duration) error

	// Close releases resources
	Close() error
}

// Config holds storage configuration
type Config struct {
	MaxCost     int64 // Maximum number of URLs kept (each URL costs 1)
	NumCounters int64 // Number of counters for admission policy
	BufferItems int64 // Number of keys per buffer

	// DefaultTTL is used when Mark is called with ttl <= 0
	DefaultTTL time.Duration
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		MaxCost:     100_000,
		NumCounters: 1_000_000, // 10x MaxCost, as ristretto recommends
		BufferItems: 64,
		DefaultTTL:  24 * time.Hour,
	}
}
