// Package dispatch is the entry point of one scheduler cycle. It either
// advances a single named world directly or fetches the full world set,
// partitions it into bounded batches and hands them to the worker queue.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sworn-game/daytick/lock"
	"github.com/sworn-game/daytick/metrics"
	"github.com/sworn-game/daytick/queue"
	"github.com/sworn-game/daytick/report"
	"github.com/sworn-game/daytick/store"
	"github.com/sworn-game/daytick/tick"
)

var tracer = otel.Tracer("github.com/sworn-game/daytick/dispatch")

// Defaults mirror the production deployment this scheduler grew out of.
const (
	DefaultBatchSize            = 20
	DefaultMinForDistribution   = 5
	DefaultMaxConcurrentBatches = 5
	DefaultLockTTL              = 60 * time.Second
)

// Options tune one Dispatcher. Zero values fall back to the defaults above.
type Options struct {
	// BatchSize is the maximum number of worlds per submitted batch.
	BatchSize int
	// MinForDistribution is the world-set size below which a cycle runs
	// directly in-process instead of going through the queue.
	MinForDistribution int
	// MaxConcurrentBatches caps how many batches one cycle submits; excess
	// batches are deferred to the next periodic trigger.
	MaxConcurrentBatches int
	// LockTTL bounds both the per-world locks and the cycle-wide lock.
	LockTTL time.Duration
	// TaskName scopes every lock key this dispatcher takes.
	TaskName string
}

func (o *Options) withDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MinForDistribution <= 0 {
		o.MinForDistribution = DefaultMinForDistribution
	}
	if o.MaxConcurrentBatches <= 0 {
		o.MaxConcurrentBatches = DefaultMaxConcurrentBatches
	}
	if o.LockTTL <= 0 {
		o.LockTTL = DefaultLockTTL
	}
	if o.TaskName == "" {
		o.TaskName = tick.DefaultTaskName
	}
}

// Dispatcher partitions and submits tick work. It never takes per-world
// locks itself; those belong to the batch processors it feeds.
type Dispatcher struct {
	store  store.Store
	locker lock.Locker
	proc   *tick.BatchProcessor
	queue  queue.Queue
	opts   Options
}

// New returns a Dispatcher. proc is used for the direct path; q for the
// distributed path.
func New(s store.Store, l lock.Locker, proc *tick.BatchProcessor, q queue.Queue, opts Options) *Dispatcher {
	opts.withDefaults()
	return &Dispatcher{store: s, locker: l, proc: proc, queue: q, opts: opts}
}

// RunTick runs one dispatch cycle. A non-nil worldID advances just that
// world; nil means the whole world set.
func (d *Dispatcher) RunTick(ctx context.Context, worldID *uuid.UUID) (*report.DispatchReport, error) {
	start := time.Now()
	defer func() {
		metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}()

	if worldID != nil {
		return d.runSingle(ctx, *worldID)
	}
	return d.runAll(ctx)
}

// runSingle is the manual/administrative path: one world, processed
// in-process through a one-element batch.
func (d *Dispatcher) runSingle(ctx context.Context, id uuid.UUID) (*report.DispatchReport, error) {
	ctx, span := tracer.Start(ctx, "Dispatcher.RunTick",
		trace.WithAttributes(
			attribute.String("daytick.mode", report.ModeDirect),
			attribute.String("daytick.world_id", id.String()),
		))
	defer span.End()

	outcomes := d.proc.Process(ctx, []uuid.UUID{id})
	return report.Direct(outcomes), nil
}

func (d *Dispatcher) runAll(ctx context.Context) (*report.DispatchReport, error) {
	ctx, span := tracer.Start(ctx, "Dispatcher.RunTick",
		trace.WithAttributes(attribute.String("daytick.mode", "all")))
	defer span.End()

	// The cycle lock keeps two overlapping triggers from both fetching and
	// re-partitioning the full world set.
	h, err := d.locker.TryAcquire(ctx, lock.Key(d.opts.TaskName, ""), d.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("dispatch: acquire cycle lock: %w", err)
	}
	if h == nil {
		metrics.CyclesSkipped.Inc()
		return &report.DispatchReport{
			Success: false,
			Mode:    report.ModeDistributed,
			Error:   "another dispatch cycle is already running",
		}, nil
	}
	defer func() {
		_ = d.locker.Release(context.Background(), h)
	}()

	ids, err := d.store.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch: list worlds: %w", err)
	}
	metrics.WorldsTotal.Set(float64(len(ids)))
	span.SetAttributes(attribute.Int("daytick.worlds", len(ids)))

	if len(ids) == 0 {
		return &report.DispatchReport{
			Success: false,
			Mode:    report.ModeDirect,
			Error:   "no worlds found to advance",
		}, nil
	}

	// Small sets are not worth the scheduling overhead.
	if len(ids) < d.opts.MinForDistribution {
		outcomes := d.proc.Process(ctx, ids)
		return report.Direct(outcomes), nil
	}

	batches := partition(ids, d.opts.BatchSize)
	submit := len(batches)
	if submit > d.opts.MaxConcurrentBatches {
		submit = d.opts.MaxConcurrentBatches
	}

	taskIDs := make([]string, 0, submit)
	for _, batch := range batches[:submit] {
		b, err := queue.NewBatch(batch)
		if err != nil {
			return nil, fmt.Errorf("dispatch: create batch: %w", err)
		}
		taskID, err := d.queue.Submit(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("dispatch: submit batch: %w", err)
		}
		metrics.BatchesSubmitted.Inc()
		taskIDs = append(taskIDs, taskID)
	}
	span.SetAttributes(attribute.Int("daytick.batches_submitted", len(taskIDs)))

	return report.Distributed(len(ids), len(batches), taskIDs), nil
}

// partition splits ids into consecutive slices of at most size elements.
// The concatenation of the result reproduces ids exactly.
func partition(ids []uuid.UUID, size int) [][]uuid.UUID {
	if size <= 0 {
		size = 1
	}
	batches := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
