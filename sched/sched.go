// Package sched is the periodic trigger driving the dispatcher, the
// in-process counterpart of an external beat scheduler. A failed cycle is
// logged and simply retried at the next interval; nothing here is fatal.
package sched

import (
	"context"
	"log/slog"
	"time"

	"github.com/sworn-game/daytick/dispatch"
	"github.com/sworn-game/daytick/report"
)

// Sink receives every cycle's report, e.g. a live report stream.
type Sink interface {
	Publish(r *report.DispatchReport)
}

// Runner invokes one full dispatch cycle per interval until its context is
// cancelled.
type Runner struct {
	d        *dispatch.Dispatcher
	interval time.Duration
	log      *slog.Logger
	sink     Sink
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger; the default is slog.Default.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = l
	}
}

// WithSink forwards each cycle's report to sink.
func WithSink(s Sink) RunnerOption {
	return func(r *Runner) {
		r.sink = s
	}
}

// NewRunner returns a Runner triggering d every interval.
func NewRunner(d *dispatch.Dispatcher, interval time.Duration, opts ...RunnerOption) *Runner {
	r := &Runner{d: d, interval: interval, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks, firing one cycle per interval. The first cycle fires after one
// full interval, not immediately. It returns the context's error on
// cancellation.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	rep, err := r.d.RunTick(ctx, nil)
	if err != nil {
		r.log.Error("dispatch cycle failed", "err", err)
		return
	}
	s := rep.Summary
	r.log.Info("dispatch cycle finished",
		"mode", rep.Mode,
		"worlds", rep.TotalWorlds,
		"succeeded", s.Succeeded,
		"skipped", s.Skipped,
		"failed", s.Failed,
		"submitted", len(rep.SubmittedTasks),
	)
	if r.sink != nil {
		r.sink.Publish(rep)
	}
}
