package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/sworn-game/daytick/tick"
)

// DefaultBatchList is the Redis list batches are pushed onto, playing the
// broker role the original deployment gave its task queue.
const DefaultBatchList = "daytick:batches"

const redisPollInterval = 50 * time.Millisecond

// RedisQueue submits batches onto a Redis list.
type RedisQueue struct {
	client *redis.Client
	list   string
}

// NewRedisQueue returns a queue pushing to list; an empty list name uses
// DefaultBatchList.
func NewRedisQueue(client *redis.Client, list string) *RedisQueue {
	if list == "" {
		list = DefaultBatchList
	}
	return &RedisQueue{client: client, list: list}
}

// Submit implements Queue.Submit.
func (q *RedisQueue) Submit(ctx context.Context, b Batch) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("queue: encode batch: %w", err)
	}
	if err := q.client.LPush(ctx, q.list, raw).Err(); err != nil {
		return "", fmt.Errorf("queue: push batch: %w", err)
	}
	return b.ID, nil
}

// RunWorker pops batches off the list and processes them with proc until ctx
// is cancelled. Pops are oldest-first, polling when the list is empty.
func (q *RedisQueue) RunWorker(ctx context.Context, proc *tick.BatchProcessor, onReport func(Batch, []tick.Outcome)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := q.client.RPop(ctx, q.list).Bytes()
		if err == redis.Nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(redisPollInterval):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("queue: pop batch: %w", err)
		}
		var b Batch
		if err := json.Unmarshal(raw, &b); err != nil {
			continue // malformed batch
		}
		outcomes := proc.Process(ctx, b.Worlds)
		if onReport != nil {
			onReport(b, outcomes)
		}
	}
}
