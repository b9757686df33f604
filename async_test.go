package indexnow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubmitAsync_WithoutQueue(t *testing.T) {
	server := NewMockIndexNowServer(t)
	cfg, _ := newTestConfig()
	client := newTestClient(t, cfg, server)

	err := client.SubmitAsync(context.Background(), "https://example.com/a")

	assert.ErrorIs(t, err, ErrAsyncUnavailable)
	assert.Empty(t, server.Requests(), "must not fall back to a synchronous submit")
}

func TestClient_SubmitAsync_RunsOnQueue(t *testing.T) {
	server := NewMockIndexNowServer(t)
	cfg, logger := newTestConfig()

	q := NewWorkerQueue(QueueConfig{Workers: 2, Size: 10}, logger)
	q.Start(context.Background())
	client := newTestClient(t, cfg, server, WithQueue(q))

	urls := []string{"https://example.com/a", "https://example.com/b"}
	require.NoError(t, client.SubmitAsync(context.Background(), urls...))
	urls[0] = "https://example.com/mutated"

	assert.Eventually(t, func() bool {
		return len(server.Requests()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, q.Stop(context.Background()))

	assert.Equal(t,
		[]interface{}{"https://example.com/a", "https://example.com/b"},
		server.Payload(t, 0)["urlList"])
	assert.Contains(t, logger.Infos(), "[IndexNow] Successfully submitted 2 URLs to IndexNow (200)")
}

func TestClient_SubmitAsync_DetachedFromCaller(t *testing.T) {
	server := NewMockIndexNowServer(t)
	cfg, _ := newTestConfig()

	q := NewWorkerQueue(QueueConfig{}, nil)
	client := newTestClient(t, cfg, server, WithQueue(q))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, client.SubmitAsync(ctx, "https://example.com/a"))
	cancel()

	q.Start(context.Background())
	require.NoError(t, q.Stop(context.Background()))

	assert.Len(t, server.Requests(), 1)
}

func TestWorkerQueue_StopWithoutStartSubmits(t *testing.T) {
	server := NewMockIndexNowServer(t)
	cfg, _ := newTestConfig()

	q := NewWorkerQueue(QueueConfig{}, nil)
	client := newTestClient(t, cfg, server, WithQueue(q))

	require.NoError(t, client.SubmitAsync(context.Background(), "https://example.com/a"))
	assert.Equal(t, 1, q.Depth())

	require.NoError(t, q.Stop(context.Background()))

	assert.Equal(t, 0, q.Depth())
	assert.Len(t, server.Requests(), 1)
}

func TestClient_SubmitAsync_QueueFull(t *testing.T) {
	cfg, _ := newTestConfig()
	q := NewWorkerQueue(QueueConfig{Size: 1}, nil)

	client, err := New(cfg, WithQueue(q))
	require.NoError(t, err)

	require.NoError(t, client.SubmitAsync(context.Background(), "https://example.com/a"))
	assert.Equal(t, 1, q.Depth())

	err = client.SubmitAsync(context.Background(), "https://example.com/b")
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Contains(t, err.Error(), "failed to enqueue submission")
}

func TestClient_SubmitAsync_Stopped(t *testing.T) {
	cfg, _ := newTestConfig()
	q := NewWorkerQueue(QueueConfig{}, nil)
	q.Start(context.Background())
	require.NoError(t, q.Stop(context.Background()))

	client, err := New(cfg, WithQueue(q))
	require.NoError(t, err)

	assert.ErrorIs(t, client.SubmitAsync(context.Background(), "https://example.com/a"), ErrQueueStopped)
}

func TestSubmitAsync_PackageLevel(t *testing.T) {
	ResetConfiguration()
	t.Cleanup(ResetConfiguration)

	assert.ErrorIs(t, SubmitAsync(context.Background(), "https://example.com/a"), ErrAsyncUnavailable)

	logger := &memoryLogger{}
	Configure(func(c *Config) {
		c.Logger = logger
		c.Disabled = true
	})

	q := NewWorkerQueue(QueueConfig{}, logger)
	UseQueue(q)
	q.Start(context.Background())

	require.NoError(t, SubmitAsync(context.Background(), "https://example.com/a"))
	require.NoError(t, q.Stop(context.Background()))
	assert.Empty(t, logger.Errors())
}

func TestWorkerQueue_PanicIsLogged(t *testing.T) {
	logger := &memoryLogger{}
	q := NewWorkerQueue(QueueConfig{}, logger)
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), func(ctx context.Context) {
		panic("kaboom")
	}))
	require.NoError(t, q.Stop(context.Background()))

	errs := logger.Errors()
	require.Len(t, errs, 1)
	assert.True(t, strings.HasPrefix(errs[0], "[IndexNow] Async submission panicked: kaboom"))
}
