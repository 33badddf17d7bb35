package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sworn-game/daytick/lock"
	"github.com/sworn-game/daytick/store"
	"github.com/sworn-game/daytick/tick"
	"github.com/sworn-game/daytick/world"
)

func newProcessor(t *testing.T) (*tick.BatchProcessor, *store.InMemoryStore) {
	t.Helper()
	s := store.NewInMemoryStore()
	proc := tick.NewBatchProcessor(lock.NewInMemory(), tick.NewExecutor(s, world.NewService()), time.Minute)
	return proc, s
}

func seedWorlds(t *testing.T, s *store.InMemoryStore, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		w := world.New("w")
		s.Seed(w)
		ids[i] = w.ID
	}
	return ids
}

func TestPoolProcessesBatch(t *testing.T) {
	proc, s := newProcessor(t)
	ids := seedWorlds(t, s, 3)

	var (
		mu      sync.Mutex
		reports []BatchReport
	)
	done := make(chan struct{}, 1)
	pool := NewPool(proc, 2, WithOnReport(func(b Batch, outcomes []tick.Outcome) {
		mu.Lock()
		reports = append(reports, BatchReport{BatchID: b.ID, Outcomes: outcomes})
		mu.Unlock()
		done <- struct{}{}
	}))

	b, err := NewBatch(ids)
	if err != nil {
		t.Fatalf("new batch: %v", err)
	}
	taskID, err := pool.Submit(context.Background(), b)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if taskID != b.ID {
		t.Fatalf("task id: got %s want %s", taskID, b.ID)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for batch report")
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) != 1 || len(reports[0].Outcomes) != 3 {
		t.Fatalf("reports: %+v", reports)
	}
	for _, o := range reports[0].Outcomes {
		if o.Status != tick.StatusSucceeded {
			t.Fatalf("outcome %s: %s (%s)", o.WorldID, o.Status, o.Reason)
		}
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	proc, _ := newProcessor(t)
	pool := NewPool(proc, 1)
	if err := pool.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, _ := NewBatch(nil)
	if _, err := pool.Submit(context.Background(), b); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	// double close is a no-op
	if err := pool.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestPoolCloseDrainsQueued(t *testing.T) {
	proc, s := newProcessor(t)
	ids := seedWorlds(t, s, 1)

	var processed int
	var mu sync.Mutex
	pool := NewPool(proc, 1, WithOnReport(func(Batch, []tick.Outcome) {
		mu.Lock()
		processed++
		mu.Unlock()
	}))

	for i := 0; i < 2; i++ {
		b, _ := NewBatch(ids)
		if _, err := pool.Submit(context.Background(), b); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if processed != 2 {
		t.Fatalf("processed: got %d want 2", processed)
	}
}
