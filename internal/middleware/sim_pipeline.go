package middleware

import (
	"context"
	"fmt"
	"sync"

	domrepo "HorizonSim/internal/domain/repository"
)

// SimPipeline serializes Monte Carlo episodes on a single background worker.
// Simulations are CPU-bound; funnelling them through one worker keeps request
// goroutines responsive and guarantees no two simulator invocations
// interleave draws. Jobs always run to completion; staleness is the caller's
// concern (results of a superseded token are discarded on apply).
type SimPipeline struct {
	metrics domrepo.Metrics
	jobs    chan job
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type job struct {
	fn   func()
	done chan struct{}
}

type PipelineOption func(*SimPipeline)

// WithQueueSize sets how many episodes may wait behind the running one.
func WithQueueSize(n int) PipelineOption {
	return func(p *SimPipeline) {
		if n > 0 {
			p.jobs = make(chan job, n)
		}
	}
}

// NewSimPipeline creates a stopped pipeline; call Start before submitting.
func NewSimPipeline(metrics domrepo.Metrics, opts ...PipelineOption) *SimPipeline {
	p := &SimPipeline{
		metrics: metrics,
		jobs:    make(chan job, 16),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutine.
func (p *SimPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case j := <-p.jobs:
				j.fn()
				close(j.done)
			}
		}
	}()
}

// Submit enqueues fn and waits for it to finish or for ctx to be cancelled.
// A cancelled wait does not cancel the job itself: it still runs to
// completion on the worker.
func (p *SimPipeline) Submit(ctx context.Context, fn func()) error {
	j := job{fn: fn, done: make(chan struct{})}
	select {
	case p.jobs <- j:
	default:
		p.metrics.RecordError("sim_queue_full")
		return fmt.Errorf("simulation queue full")
	}
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop terminates the worker. Queued jobs are dropped.
func (p *SimPipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}
