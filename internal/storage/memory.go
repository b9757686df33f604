package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// MemoryStorage is a Storage backed by ristretto
type MemoryStorage struct {
	cache      *ristretto.Cache
	defaultTTL time.Duration
}

// NewMemoryStorage creates a new ristretto backed storage
func NewMemoryStorage(config Config) (*MemoryStorage, error) {
	if config.MaxCost <= 0 {
		return nil, fmt.Errorf("max cost must be positive")
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultConfig().DefaultTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	return &MemoryStorage{
		cache:      cache,
		defaultTTL: config.DefaultTTL,
	}, nil
}

func (m *MemoryStorage) Seen(ctx context.Context, url string) bool {
	_, found := m.cache.Get(url)
	return found
}

// Mark stores urls and waits for the writes to become visible, so a
// following Seen observes them.
func (m *MemoryStorage) Mark(ctx context.Context, urls []string, ttl time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	for _, url := range urls {
		m.cache.SetWithTTL(url, struct{}{}, 1, ttl)
	}
	m.cache.Wait()

	return nil
}

func (m *MemoryStorage) Close() error {
	m.cache.Close()
	return nil
}
