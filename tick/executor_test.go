package tick

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sworn-game/daytick/store"
	"github.com/sworn-game/daytick/world"
)

type stubAdvancer struct {
	err     error
	panicOn uuid.UUID
}

func (a *stubAdvancer) AdvanceDay(ctx context.Context, w *world.World) error {
	if a.panicOn == w.ID {
		panic("boom")
	}
	if a.err != nil {
		return a.err
	}
	w.Day++
	return nil
}

type failingCommitStore struct {
	*store.InMemoryStore
	err error
}

func (s *failingCommitStore) Session(ctx context.Context) (store.Session, error) {
	inner, err := s.InMemoryStore.Session(ctx)
	if err != nil {
		return nil, err
	}
	return &failingCommitSession{Session: inner, err: s.err}, nil
}

type failingCommitSession struct {
	store.Session
	err error
}

func (s *failingCommitSession) Commit(ctx context.Context) error { return s.err }

func TestExecutorAdvanceOne(t *testing.T) {
	s := store.NewInMemoryStore()
	w := world.New("alpha")
	s.Seed(w)
	e := NewExecutor(s, &stubAdvancer{})

	out := e.AdvanceOne(context.Background(), w.ID)
	if out.Status != StatusSucceeded {
		t.Fatalf("status: %s (%s)", out.Status, out.Reason)
	}
	if out.Day != 1 {
		t.Fatalf("day: got %d want 1", out.Day)
	}

	sess, _ := s.Session(context.Background())
	defer sess.Close()
	got, _ := sess.Load(context.Background(), w.ID)
	if got.Day != 1 {
		t.Fatalf("persisted day: got %d want 1", got.Day)
	}
}

func TestExecutorWorldNotFound(t *testing.T) {
	s := store.NewInMemoryStore()
	e := NewExecutor(s, &stubAdvancer{})

	out := e.AdvanceOne(context.Background(), uuid.New())
	if out.Status != StatusFailed {
		t.Fatalf("status: %s", out.Status)
	}
	if !errors.Is(out.Err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", out.Err)
	}
}

func TestExecutorAdvancerError(t *testing.T) {
	s := store.NewInMemoryStore()
	w := world.New("alpha")
	s.Seed(w)
	wantErr := errors.New("settlement revolt")
	e := NewExecutor(s, &stubAdvancer{err: wantErr})

	out := e.AdvanceOne(context.Background(), w.ID)
	if out.Status != StatusFailed || !errors.Is(out.Err, wantErr) {
		t.Fatalf("status %s err %v", out.Status, out.Err)
	}

	sess, _ := s.Session(context.Background())
	defer sess.Close()
	got, _ := sess.Load(context.Background(), w.ID)
	if got.Day != 0 {
		t.Fatalf("failed advance mutated storage: day %d", got.Day)
	}
}

func TestExecutorCommitErrorDiscardsWrite(t *testing.T) {
	inner := store.NewInMemoryStore()
	w := world.New("alpha")
	inner.Seed(w)
	wantErr := errors.New("connection reset")
	e := NewExecutor(&failingCommitStore{InMemoryStore: inner, err: wantErr}, &stubAdvancer{})

	out := e.AdvanceOne(context.Background(), w.ID)
	if out.Status != StatusFailed || !errors.Is(out.Err, wantErr) {
		t.Fatalf("status %s err %v", out.Status, out.Err)
	}

	sess, _ := inner.Session(context.Background())
	defer sess.Close()
	got, _ := sess.Load(context.Background(), w.ID)
	if got.Day != 0 {
		t.Fatalf("failed commit leaked a write: day %d", got.Day)
	}
}
