package tick

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sworn-game/daytick/lock"
	"github.com/sworn-game/daytick/metrics"
)

// DefaultTaskName scopes every lock taken by the day-advance task.
const DefaultTaskName = "advance_game_day"

// BatchProcessor walks a batch of world ids strictly sequentially, taking a
// per-world lock around each execution. Parallelism comes from running
// multiple processors concurrently, never from inside one.
type BatchProcessor struct {
	locker lock.Locker
	exec   *Executor
	task   string
	ttl    time.Duration
}

// NewBatchProcessor returns a BatchProcessor using the given locker and
// executor. ttl bounds how long a crashed iteration can starve a world.
func NewBatchProcessor(l lock.Locker, e *Executor, ttl time.Duration) *BatchProcessor {
	return &BatchProcessor{locker: l, exec: e, task: DefaultTaskName, ttl: ttl}
}

// Process returns exactly one outcome per input id, in input order. A single
// world's failure, including a panic in the domain transition, never aborts
// the rest of the batch.
func (p *BatchProcessor) Process(ctx context.Context, ids []uuid.UUID) []Outcome {
	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		out := p.processOne(ctx, id)
		switch out.Status {
		case StatusSucceeded:
			metrics.TicksSucceeded.Inc()
		case StatusSkipped:
			metrics.TicksSkipped.Inc()
		case StatusFailed:
			metrics.TicksFailed.Inc()
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (p *BatchProcessor) processOne(ctx context.Context, id uuid.UUID) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(id, fmt.Errorf("panic advancing world %s: %v", id, r))
		}
	}()

	h, err := p.locker.TryAcquire(ctx, lock.Key(p.task, id.String()), p.ttl)
	if err != nil {
		return Failed(id, fmt.Errorf("acquire lock: %w", err))
	}
	if h == nil {
		return Skipped(id, ReasonAlreadyLocked)
	}
	defer func() {
		// release uses a background context so a cancelled batch still
		// frees the lock
		_ = p.locker.Release(context.Background(), h)
	}()

	return p.exec.AdvanceOne(ctx, id)
}
