package queue

import (
	"context"
	"encoding/json"
	"fmt"

	nats "github.com/nats-io/nats.go"

	"github.com/sworn-game/daytick/tick"
)

// Default NATS subjects for batch submission and completion reports.
const (
	DefaultBatchSubject  = "daytick.batches"
	DefaultReportSubject = "daytick.reports"
)

// NATSQueue submits batches as JSON messages on a NATS subject, for
// deployments where batch workers run in separate processes.
type NATSQueue struct {
	conn    *nats.Conn
	subject string
}

// NewNATSQueue returns a queue publishing to subject; an empty subject uses
// DefaultBatchSubject.
func NewNATSQueue(conn *nats.Conn, subject string) *NATSQueue {
	if subject == "" {
		subject = DefaultBatchSubject
	}
	return &NATSQueue{conn: conn, subject: subject}
}

// Submit implements Queue.Submit.
func (q *NATSQueue) Submit(ctx context.Context, b Batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("queue: encode batch: %w", err)
	}
	if err := q.conn.Publish(q.subject, raw); err != nil {
		return "", fmt.Errorf("queue: publish batch: %w", err)
	}
	return b.ID, nil
}

// BatchReport is the completion record a remote worker publishes after
// processing one batch.
type BatchReport struct {
	BatchID  string         `json:"batch_id"`
	Outcomes []tick.Outcome `json:"outcomes"`
}

// RunNATSWorker consumes batches from subject and processes them with proc,
// publishing a BatchReport for each to reportSubject. It blocks until ctx is
// cancelled.
func RunNATSWorker(ctx context.Context, conn *nats.Conn, subject, reportSubject string, proc *tick.BatchProcessor) error {
	if subject == "" {
		subject = DefaultBatchSubject
	}
	if reportSubject == "" {
		reportSubject = DefaultReportSubject
	}

	msgs := make(chan *nats.Msg, 16)
	sub, err := conn.ChanSubscribe(subject, msgs)
	if err != nil {
		return fmt.Errorf("queue: subscribe %s: %w", subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-msgs:
			var b Batch
			if err := json.Unmarshal(msg.Data, &b); err != nil {
				continue // malformed batch, nothing to report against
			}
			outcomes := proc.Process(ctx, b.Worlds)
			raw, err := json.Marshal(BatchReport{BatchID: b.ID, Outcomes: outcomes})
			if err != nil {
				continue
			}
			_ = conn.Publish(reportSubject, raw)
		}
	}
}
