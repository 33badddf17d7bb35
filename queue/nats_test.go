package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	nats "github.com/nats-io/nats.go"

	"github.com/sworn-game/daytick/tick"
)

func newNATSConn(t *testing.T) *nats.Conn {
	t.Helper()
	s := natsserver.RunRandClientPortServer()
	conn, err := nats.Connect(s.ClientURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		s.Shutdown()
	})
	return conn
}

func TestNATSQueueSubmit(t *testing.T) {
	conn := newNATSConn(t)
	q := NewNATSQueue(conn, "")

	sub, err := conn.SubscribeSync(DefaultBatchSubject)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_, s := newProcessor(t)
	ids := seedWorlds(t, s, 2)
	b, _ := NewBatch(ids)
	taskID, err := q.Submit(context.Background(), b)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if taskID != b.ID {
		t.Fatalf("task id: got %s want %s", taskID, b.ID)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("next msg: %v", err)
	}
	var got Batch
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != b.ID || len(got.Worlds) != 2 {
		t.Fatalf("batch: %+v", got)
	}
}

func TestNATSWorkerProcessesBatch(t *testing.T) {
	conn := newNATSConn(t)
	proc, s := newProcessor(t)
	ids := seedWorlds(t, s, 3)

	reportSub, err := conn.SubscribeSync(DefaultReportSubject)
	if err != nil {
		t.Fatalf("subscribe reports: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workerDone := make(chan error, 1)
	go func() {
		workerDone <- RunNATSWorker(ctx, conn, "", "", proc)
	}()

	q := NewNATSQueue(conn, "")
	b, _ := NewBatch(ids)
	if _, err := q.Submit(context.Background(), b); err != nil {
		t.Fatalf("submit: %v", err)
	}

	msg, err := reportSub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("no report: %v", err)
	}
	var rep BatchReport
	if err := json.Unmarshal(msg.Data, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.BatchID != b.ID || len(rep.Outcomes) != 3 {
		t.Fatalf("report: %+v", rep)
	}
	for _, o := range rep.Outcomes {
		if o.Status != tick.StatusSucceeded {
			t.Fatalf("outcome: %s (%s)", o.Status, o.Reason)
		}
	}

	cancel()
	select {
	case <-workerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
