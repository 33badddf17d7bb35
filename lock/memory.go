package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memEntry struct {
	token     string
	expiresAt time.Time
	timer     *time.Timer
}

// InMemory implements Locker using local memory. It is used by the
// standalone preset and in tests; semantics match the Redis locker,
// including TTL expiry and owner-checked release.
type InMemory struct {
	mu    sync.Mutex
	locks map[string]*memEntry
}

// NewInMemory returns a new in-memory locker.
func NewInMemory() *InMemory {
	return &InMemory{locks: make(map[string]*memEntry)}
}

// TryAcquire implements Locker.TryAcquire.
func (l *InMemory) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.locks[key]; ok {
		if e.expiresAt.IsZero() || now.Before(e.expiresAt) {
			return nil, nil
		}
		// lazily expired
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(l.locks, key)
	}
	e := &memEntry{token: uuid.NewString()}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
		e.timer = time.AfterFunc(ttl, func() {
			l.expire(key, e.token)
		})
	}
	l.locks[key] = e
	return &Handle{Key: key, AcquiredAt: now, TTL: ttl, token: e.token}, nil
}

// Release implements Locker.Release.
func (l *InMemory) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[h.Key]
	if !ok || e.token != h.token {
		return nil
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(l.locks, h.Key)
	return nil
}

func (l *InMemory) expire(key, token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.locks[key]; ok && e.token == token {
		delete(l.locks, key)
	}
}
