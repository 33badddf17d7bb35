// Package presets assembles ready-to-run scheduler stacks so callers do not
// have to wire locker, store, processor and queue by hand.
package presets

import (
	redis "github.com/redis/go-redis/v9"

	"github.com/sworn-game/daytick/dispatch"
	"github.com/sworn-game/daytick/lock"
	"github.com/sworn-game/daytick/queue"
	"github.com/sworn-game/daytick/store"
	"github.com/sworn-game/daytick/tick"
	"github.com/sworn-game/daytick/world"
)

// RedisOptions configures the connection to Redis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Stack is one fully wired scheduler. Close releases the worker pool and
// any cache resources.
//
// Store is the read surface for callers outside the scheduler and may serve
// cached copies; the tick path inside the stack always reads the
// authoritative store, since per-process caches are not coherent across
// scheduler instances.
type Stack struct {
	Dispatcher *dispatch.Dispatcher
	Store      store.Store
	Locker     lock.Locker
	Pool       *queue.Pool

	cached *store.CachedStore
}

// Close drains the worker pool and releases the stack's resources.
func (s *Stack) Close() error {
	err := s.Pool.Close()
	if s.cached != nil {
		s.cached.Close()
	}
	return err
}

// NewRedisStack builds the production wiring: Redis locks, Redis world
// storage, and an in-process worker pool sized to the batch-concurrency cap.
// A ristretto read-through cache fronts Stack.Store for outside readers; the
// executor and dispatcher bypass it so a lock-holding tick never advances
// from a stale copy.
func NewRedisStack(ropts RedisOptions, opts dispatch.Options, poolWorkers int) (*Stack, error) {
	if opts.LockTTL <= 0 {
		opts.LockTTL = dispatch.DefaultLockTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     ropts.Addr,
		Password: ropts.Password,
		DB:       ropts.DB,
	})

	authoritative := store.NewRedisStore(client)
	cached, err := store.NewCachedStore(authoritative)
	if err != nil {
		return nil, err
	}
	locker := lock.NewRedis(client)
	proc := tick.NewBatchProcessor(locker, tick.NewExecutor(authoritative, world.NewService()), opts.LockTTL)
	pool := queue.NewPool(proc, poolWorkers)

	return &Stack{
		Dispatcher: dispatch.New(authoritative, locker, proc, pool, opts),
		Store:      cached,
		Locker:     locker,
		Pool:       pool,
		cached:     cached,
	}, nil
}

// NewStandalone builds a fully in-memory stack with no external
// dependencies, for local development and tests.
func NewStandalone(opts dispatch.Options, poolWorkers int) (*Stack, *store.InMemoryStore) {
	if opts.LockTTL <= 0 {
		opts.LockTTL = dispatch.DefaultLockTTL
	}
	s := store.NewInMemoryStore()
	locker := lock.NewInMemory()
	proc := tick.NewBatchProcessor(locker, tick.NewExecutor(s, world.NewService()), opts.LockTTL)
	pool := queue.NewPool(proc, poolWorkers)

	return &Stack{
		Dispatcher: dispatch.New(s, locker, proc, pool, opts),
		Store:      s,
		Locker:     locker,
		Pool:       pool,
	}, s
}
