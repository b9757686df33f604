package indexnow

import (
	"context"
	"fmt"

	"github.com/OrlandoBitencourt/indexnow/internal/queue"
)

// Queue defers work to background workers. WorkerQueue is the bundled
// implementation; any job system can be adapted.
type Queue interface {
	Enqueue(ctx context.Context, job func(ctx context.Context)) error
}

// SubmitAsync schedules Submit on the client's queue and returns once
// the job is enqueued. The submission outcome is only logged. Without a
// queue it fails with ErrAsyncUnavailable rather than submitting inline.
func (c *Client) SubmitAsync(ctx context.Context, urls ...string) error {
	if c.queue == nil {
		return ErrAsyncUnavailable
	}

	list := append([]string(nil), urls...)
	job := func(jobCtx context.Context) {
		c.Submit(jobCtx, list...)
	}

	if err := c.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue submission: %w", err)
	}
	return nil
}

// SubmitAsync schedules a submission using the process-wide
// configuration and the queue registered with UseQueue.
func SubmitAsync(ctx context.Context, urls ...string) error {
	q := defaultQueue()
	if q == nil {
		return ErrAsyncUnavailable
	}

	client, err := New(nil, WithQueue(q))
	if err != nil {
		return err
	}
	return client.SubmitAsync(ctx, urls...)
}

// QueueConfig configures a WorkerQueue.
type QueueConfig struct {
	// Workers is the number of concurrent submissions. Default: 1
	Workers int

	// Size is how many submissions may wait. Default: 100
	Size int

	// RatePerSec limits how many submissions start per second.
	// 0 means unlimited.
	RatePerSec int
}

// WorkerQueue is an in-process Queue backed by a goroutine pool.
type WorkerQueue struct {
	pool *queue.Pool
}

// NewWorkerQueue creates a queue. Jobs may be enqueued before Start.
func NewWorkerQueue(cfg QueueConfig, logger Logger) *WorkerQueue {
	if logger == nil {
		logger = NopLogger{}
	}

	return &WorkerQueue{
		pool: queue.New(queue.Config{
			Workers:    cfg.Workers,
			Size:       cfg.Size,
			RatePerSec: cfg.RatePerSec,
			OnPanic: func(recovered interface{}) {
				logger.Error(fmt.Sprintf("%sAsync submission panicked: %v", logPrefix, recovered))
			},
		}),
	}
}

// Start launches the workers.
func (q *WorkerQueue) Start(ctx context.Context) {
	q.pool.Start(ctx)
}

// Stop waits for queued submissions to finish, or for ctx to end. If the
// queue was never started, queued submissions run on the calling goroutine.
func (q *WorkerQueue) Stop(ctx context.Context) error {
	return q.pool.Stop(ctx)
}

// Enqueue implements Queue.
func (q *WorkerQueue) Enqueue(ctx context.Context, job func(ctx context.Context)) error {
	return q.pool.Enqueue(ctx, job)
}

// Depth returns the number of waiting submissions.
func (q *WorkerQueue) Depth() int {
	return q.pool.Depth()
}

// Errors returned by WorkerQueue.Enqueue.
var (
	ErrQueueFull    = queue.ErrQueueFull
	ErrQueueStopped = queue.ErrStopped
)
