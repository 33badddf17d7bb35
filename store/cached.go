package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"

	"github.com/sworn-game/daytick/world"
)

const defaultCacheTTL = 30 * time.Second

// CachedStore wraps a Store with a ristretto read-through cache. It is an
// explicit, injectable component owned by the caller: loads populate the
// cache, committed saves invalidate the affected worlds, and entries expire
// after a bounded TTL. ListIDs always goes to the backing store.
type CachedStore struct {
	inner Store
	cache *ristretto.Cache
	ttl   time.Duration
}

// CachedOption configures a CachedStore.
type CachedOption func(*cachedOptions)

type cachedOptions struct {
	ttl time.Duration
	cfg *ristretto.Config
}

// WithCacheTTL bounds how long a cached world is served.
func WithCacheTTL(d time.Duration) CachedOption {
	return func(o *cachedOptions) {
		o.ttl = d
	}
}

// WithRistretto applies a custom ristretto configuration.
func WithRistretto(cfg *ristretto.Config) CachedOption {
	return func(o *cachedOptions) {
		o.cfg = cfg
	}
}

// NewCachedStore returns a CachedStore over inner. An injected ristretto
// configuration that the cache rejects surfaces as an error.
func NewCachedStore(inner Store, opts ...CachedOption) (*CachedStore, error) {
	o := cachedOptions{
		ttl: defaultCacheTTL,
		cfg: &ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     1 << 20,
			BufferItems: 64,
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	rc, err := ristretto.NewCache(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("store: ristretto cache: %w", err)
	}
	return &CachedStore{inner: inner, cache: rc, ttl: o.ttl}, nil
}

// ListIDs implements Store.ListIDs.
func (c *CachedStore) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return c.inner.ListIDs(ctx)
}

// Session implements Store.Session.
func (c *CachedStore) Session(ctx context.Context) (Session, error) {
	inner, err := c.inner.Session(ctx)
	if err != nil {
		return nil, err
	}
	return &cachedSession{store: c, inner: inner}, nil
}

// Invalidate drops a world from the cache.
func (c *CachedStore) Invalidate(id uuid.UUID) {
	c.cache.Del(id.String())
	c.cache.Wait()
}

// Close releases the cache's resources.
func (c *CachedStore) Close() {
	c.cache.Close()
}

type cachedSession struct {
	store  *CachedStore
	inner  Session
	saved  []uuid.UUID
	closed bool
}

func (s *cachedSession) Load(ctx context.Context, id uuid.UUID) (*world.World, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if v, ok := s.store.cache.Get(id.String()); ok {
		if w, ok := v.(world.World); ok {
			cp := w
			return &cp, nil
		}
	}
	w, err := s.inner.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store.cache.SetWithTTL(id.String(), *w, 1, s.store.ttl)
	s.store.cache.Wait()
	return w, nil
}

func (s *cachedSession) Save(ctx context.Context, w *world.World) error {
	if err := s.inner.Save(ctx, w); err != nil {
		return err
	}
	s.saved = append(s.saved, w.ID)
	return nil
}

// Commit flushes the inner session and invalidates every saved world so the
// next load sees the committed state.
func (s *cachedSession) Commit(ctx context.Context) error {
	if err := s.inner.Commit(ctx); err != nil {
		return err
	}
	for _, id := range s.saved {
		s.store.Invalidate(id)
	}
	s.saved = nil
	return nil
}

func (s *cachedSession) Close() error {
	s.saved = nil
	s.closed = true
	return s.inner.Close()
}
