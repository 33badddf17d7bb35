// Package tick implements the core of the scheduler: advancing one world by
// one game day, and processing batches of worlds under per-world locks.
package tick

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sworn-game/daytick/store"
	"github.com/sworn-game/daytick/world"
)

var tracer = otel.Tracer("github.com/sworn-game/daytick/tick")

// Advancer is the domain collaborator applying the single-step state
// transition. The step must be idempotent per call; the scheduler gives no
// stronger guarantee than at-most-one concurrent executor per world within
// the lock's TTL window.
type Advancer interface {
	AdvanceDay(ctx context.Context, w *world.World) error
}

// Executor advances exactly one world per call. It opens a fresh persistence
// session scoped to that call and never touches locks; lock lifetime belongs
// to the caller.
type Executor struct {
	store    store.Store
	advancer Advancer
}

// NewExecutor returns an Executor over the given store and domain advancer.
func NewExecutor(s store.Store, a Advancer) *Executor {
	return &Executor{store: s, advancer: a}
}

// AdvanceOne loads the world, applies one day transition and persists the
// result. Any error discards the staged write and is reported as a Failed
// outcome; the session is closed on every path.
func (e *Executor) AdvanceOne(ctx context.Context, id uuid.UUID) Outcome {
	ctx, span := tracer.Start(ctx, "Executor.AdvanceOne",
		trace.WithAttributes(attribute.String("daytick.world_id", id.String())))
	defer span.End()

	sess, err := e.store.Session(ctx)
	if err != nil {
		return Failed(id, fmt.Errorf("open session: %w", err))
	}
	defer sess.Close()

	w, err := sess.Load(ctx, id)
	if err != nil {
		return Failed(id, err)
	}
	if err := e.advancer.AdvanceDay(ctx, w); err != nil {
		return Failed(id, fmt.Errorf("advance day: %w", err))
	}
	if err := sess.Save(ctx, w); err != nil {
		return Failed(id, fmt.Errorf("save world: %w", err))
	}
	if err := sess.Commit(ctx); err != nil {
		return Failed(id, err)
	}
	span.SetAttributes(attribute.Int64("daytick.day", w.Day))
	return Succeeded(id, w.Day)
}
