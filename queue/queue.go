// Package queue carries batches of world ids from the dispatcher to the
// workers that process them. Backends share one Submit contract so the
// dispatcher does not care whether a batch runs in-process, goes over NATS
// or lands on a broker list.
package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	hashiuuid "github.com/hashicorp/go-uuid"
)

// ErrClosed is returned when submitting to a queue that has been closed.
var ErrClosed = errors.New("queue: closed")

// Batch is an ordered, bounded partition of world ids, created once per
// dispatch cycle and consumed by exactly one worker.
type Batch struct {
	ID     string      `json:"id"`
	Worlds []uuid.UUID `json:"worlds"`
}

// NewBatch wraps ids with a fresh batch id.
func NewBatch(ids []uuid.UUID) (Batch, error) {
	id, err := hashiuuid.GenerateUUID()
	if err != nil {
		return Batch{}, err
	}
	return Batch{ID: id, Worlds: ids}, nil
}

// Queue submits batches for asynchronous processing. Submit returns a task
// id for observability; it never waits for the batch to complete.
type Queue interface {
	Submit(ctx context.Context, b Batch) (string, error)
}
