// Package store is the persistence boundary of the tick scheduler. The
// scheduler only ever talks to the three-method contract below plus a
// per-call Session, so the storage engine behind it is swappable.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sworn-game/daytick/world"
)

// ErrNotFound is returned when a world id has no stored state, typically
// because the world vanished between listing and loading.
var ErrNotFound = errors.New("store: world not found")

// ErrSessionClosed is returned by session operations after Close. Close
// itself stays idempotent.
var ErrSessionClosed = errors.New("store: session closed")

// Store provides access to the authoritative world state.
type Store interface {
	// ListIDs returns the ids of every stored world.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	// Session opens a fresh, isolated persistence context. Each tick call
	// gets its own session so one world's failed write cannot poison
	// another's.
	Session(ctx context.Context) (Session, error)
}

// Session is one isolated unit of persistence work. Writes are staged until
// Commit; closing without committing discards them. Close is idempotent and
// must be called on every exit path.
type Session interface {
	Load(ctx context.Context, id uuid.UUID) (*world.World, error)
	Save(ctx context.Context, w *world.World) error
	Commit(ctx context.Context) error
	Close() error
}
