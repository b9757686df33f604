// Package queue runs deferred submissions on background workers.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

var (
	// ErrQueueFull is returned when the buffer has no room left
	ErrQueueFull = errors.New("queue is full")

	// ErrStopped is returned when enqueueing after Stop
	ErrStopped = errors.New("queue is stopped")
)

// Job is a unit of deferred work. The context it receives belongs to the
// pool, not to the caller that enqueued it.
type Job = func(ctx context.Context)

// Config holds pool configuration
type Config struct {
	// Workers is the number of goroutines draining the queue
	Workers int

	// Size is the channel buffer; Enqueue fails fast once it is full
	Size int

	// RatePerSec paces job starts across all workers. 0 disables pacing.
	RatePerSec int

	// OnPanic is called with the recovered value when a job panics
	OnPanic func(recovered interface{})
}

// DefaultConfig returns default pool configuration
func DefaultConfig() Config {
	return Config{
		Workers:    1,
		Size:       100,
		RatePerSec: 0,
	}
}

// Pool is a fixed-size worker pool over a buffered channel
type Pool struct {
	mu sync.Mutex

	cfg     Config
	limiter *rate.Limiter
	queue   chan Job

	started bool
	stopped bool

	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup
}

// New creates a pool. Jobs may be enqueued before Start; they run once
// workers are started.
func New(cfg Config) *Pool {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}

	p := &Pool{
		cfg:   cfg,
		queue: make(chan Job, cfg.Size),
	}

	if cfg.RatePerSec > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}

	return p
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true

	// Jobs outlive the caller's request, but not the pool.
	p.runCtx, p.runCancel = context.WithCancel(context.WithoutCancel(ctx))

	for i := 0; i < p.cfg.Workers; i++ {
		p.workerWG.Add(1)
		go p.worker()
	}
}

// Enqueue adds job without blocking.
func (p *Pool) Enqueue(ctx context.Context, job func(ctx context.Context)) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Depth returns the number of jobs waiting for a worker
func (p *Pool) Depth() int {
	return len(p.queue)
}

// Stop rejects new jobs and waits for queued ones to finish. A pool that
// was never started runs its queued jobs on the calling goroutine. If ctx
// ends first, in-flight jobs are cancelled and ctx.Err() is returned.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	started := p.started
	p.mu.Unlock()

	if !started {
		return p.drain(ctx)
	}

	done := make(chan struct{})
	go func() {
		p.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.runCancel()
		return nil
	case <-ctx.Done():
		p.runCancel()
		<-done
		return ctx.Err()
	}
}

// drain runs jobs queued before Start. Jobs left when ctx ends are
// dropped and counted in the returned error.
func (p *Pool) drain(ctx context.Context) error {
	p.runCtx, p.runCancel = context.WithCancel(context.WithoutCancel(ctx))
	defer p.runCancel()

	for job := range p.queue {
		if err := ctx.Err(); err != nil {
			dropped := 1 + len(p.queue)
			for range p.queue {
			}
			return fmt.Errorf("%d queued jobs dropped: %w", dropped, err)
		}
		p.run(job)
	}
	return nil
}

func (p *Pool) worker() {
	defer p.workerWG.Done()

	for job := range p.queue {
		if p.limiter != nil {
			if err := p.limiter.Wait(p.runCtx); err != nil {
				// pool cancelled; drain without running
				continue
			}
		}
		p.run(job)
	}
}

func (p *Pool) run(job Job) {
	defer func() {
		if r := recover(); r != nil && p.cfg.OnPanic != nil {
			p.cfg.OnPanic(r)
		}
	}()

	job(p.runCtx)
}
