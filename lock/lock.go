package lock

import (
	"context"
	"time"
)

// KeyPrefix namespaces every scheduler lock in the shared store.
const KeyPrefix = "task_lock"

// Key derives the lock name for a task/resource pair. An empty resource
// means the whole resource set, so concurrent full dispatch cycles collide
// on the same key.
func Key(task, resource string) string {
	if resource == "" {
		resource = "all"
	}
	return KeyPrefix + ":" + task + ":" + resource
}

// Handle represents one acquired lock. It is owned by the acquiring batch
// iteration and must be released on every exit path. Handles are never
// shared between concurrent processors.
type Handle struct {
	Key        string
	AcquiredAt time.Time
	TTL        time.Duration

	token string
}

// Locker provides named, TTL-bounded, non-blocking mutual exclusion over a
// shared store.
type Locker interface {
	// TryAcquire attempts to take the lock without waiting. A nil handle
	// with a nil error means the lock is held by someone else, which is a
	// normal outcome, not an error.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Handle, error)
	// Release frees the lock. Releasing an expired handle, or a handle
	// whose lock has since been taken by another holder, is a no-op.
	Release(ctx context.Context, h *Handle) error
}
