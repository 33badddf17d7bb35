package queue

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sworn-game/daytick/tick"
)

// Pool is the in-process Queue: a bounded set of workers, each draining one
// batch at a time through a BatchProcessor. Pool size bounds the number of
// concurrently open persistence sessions to one per worker.
type Pool struct {
	proc     *tick.BatchProcessor
	jobs     chan Batch
	g        *errgroup.Group
	onReport func(Batch, []tick.Outcome)

	// mu serializes Close against in-flight Submits so the jobs channel is
	// never closed under a sender.
	mu     sync.RWMutex
	closed bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithOnReport registers a callback invoked with each completed batch and
// its outcomes. It runs on the worker goroutine.
func WithOnReport(fn func(Batch, []tick.Outcome)) PoolOption {
	return func(p *Pool) {
		p.onReport = fn
	}
}

// NewPool starts workers goroutines processing submitted batches.
func NewPool(proc *tick.BatchProcessor, workers int, opts ...PoolOption) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		proc: proc,
		jobs: make(chan Batch, workers),
		g:    &errgroup.Group{},
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < workers; i++ {
		p.g.Go(func() error {
			for b := range p.jobs {
				outcomes := p.proc.Process(context.Background(), b.Worlds)
				if p.onReport != nil {
					p.onReport(b, outcomes)
				}
			}
			return nil
		})
	}
	return p
}

// Submit implements Queue.Submit. The batch id doubles as the task id.
func (p *Pool) Submit(ctx context.Context, b Batch) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrClosed
	}
	select {
	case p.jobs <- b:
		return b.ID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops accepting batches, drains the queued ones and waits for the
// workers to finish.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	return p.g.Wait()
}
