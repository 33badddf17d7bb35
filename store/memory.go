package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sworn-game/daytick/world"
)

// InMemoryStore is a Store backed by a map, used by the standalone preset
// and in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	worlds map[uuid.UUID]world.World
}

// NewInMemoryStore returns an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{worlds: make(map[uuid.UUID]world.World)}
}

// Seed inserts a world directly, bypassing the session protocol.
func (s *InMemoryStore) Seed(w *world.World) {
	s.mu.Lock()
	s.worlds[w.ID] = *w
	s.mu.Unlock()
}

// ListIDs implements Store.ListIDs.
func (s *InMemoryStore) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.worlds))
	for id := range s.worlds {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Session implements Store.Session.
func (s *InMemoryStore) Session(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memSession{store: s, staged: make(map[uuid.UUID]world.World)}, nil
}

type memSession struct {
	store  *InMemoryStore
	staged map[uuid.UUID]world.World
	closed bool
}

func (m *memSession) Load(ctx context.Context, id uuid.UUID) (*world.World, error) {
	if m.closed {
		return nil, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.store.mu.RLock()
	w, ok := m.store.worlds[id]
	m.store.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := w
	return &cp, nil
}

func (m *memSession) Save(ctx context.Context, w *world.World) error {
	if m.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.staged[w.ID] = *w
	return nil
}

func (m *memSession) Commit(ctx context.Context) error {
	if m.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.mu.Lock()
	for id, w := range m.staged {
		m.store.worlds[id] = w
	}
	m.store.mu.Unlock()
	m.staged = make(map[uuid.UUID]world.World)
	return nil
}

func (m *memSession) Close() error {
	m.staged = nil
	m.closed = true
	return nil
}
