package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/sworn-game/daytick/world"
)

const (
	worldKeyPrefix        = "world:"
	defaultRedisOpTimeout = 5 * time.Second
)

// RedisStore implements Store with one JSON document per world.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*redisStoreOptions)

type redisStoreOptions struct {
	timeout time.Duration
}

// WithTimeout sets the operation timeout for Redis calls.
func WithTimeout(d time.Duration) RedisOption {
	return func(o *redisStoreOptions) {
		o.timeout = d
	}
}

// NewRedisStore returns a new RedisStore using the provided Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	o := redisStoreOptions{timeout: defaultRedisOpTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisStore{client: client, timeout: o.timeout}
}

func worldKey(id uuid.UUID) string {
	return worldKeyPrefix + id.String()
}

// ListIDs implements Store.ListIDs.
func (s *RedisStore) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		ids    []uuid.UUID
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, worldKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("store: scan worlds: %w", err)
		}
		for _, k := range keys {
			id, err := uuid.Parse(strings.TrimPrefix(k, worldKeyPrefix))
			if err != nil {
				continue // foreign key in the namespace
			}
			ids = append(ids, id)
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}

// Session implements Store.Session.
func (s *RedisStore) Session(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &redisSession{store: s, staged: make(map[uuid.UUID]*world.World)}, nil
}

type redisSession struct {
	store  *RedisStore
	staged map[uuid.UUID]*world.World
	closed bool
}

func (r *redisSession) Load(ctx context.Context, id uuid.UUID) (*world.World, error) {
	if r.closed {
		return nil, ErrSessionClosed
	}
	ctx, cancel := context.WithTimeout(ctx, r.store.timeout)
	defer cancel()

	raw, err := r.store.client.Get(ctx, worldKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load world %s: %w", id, err)
	}
	var w world.World
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("store: decode world %s: %w", id, err)
	}
	return &w, nil
}

func (r *redisSession) Save(ctx context.Context, w *world.World) error {
	if r.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := *w
	r.staged[w.ID] = &cp
	return nil
}

// Commit flushes all staged writes in one transactional pipeline.
func (r *redisSession) Commit(ctx context.Context) error {
	if r.closed {
		return ErrSessionClosed
	}
	if len(r.staged) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.store.timeout)
	defer cancel()

	_, err := r.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, w := range r.staged {
			raw, err := json.Marshal(w)
			if err != nil {
				return fmt.Errorf("store: encode world %s: %w", id, err)
			}
			pipe.Set(ctx, worldKey(id), raw, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	r.staged = make(map[uuid.UUID]*world.World)
	return nil
}

func (r *redisSession) Close() error {
	r.staged = nil
	r.closed = true
	return nil
}
