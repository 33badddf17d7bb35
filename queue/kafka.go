package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// DefaultBatchTopic is the Kafka topic batches are produced to.
const DefaultBatchTopic = "daytick.batches"

// KafkaQueue submits batches through a Kafka producer, for deployments that
// already run their task traffic over Kafka.
type KafkaQueue struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaQueue returns a queue producing to topic; an empty topic uses
// DefaultBatchTopic.
func NewKafkaQueue(producer sarama.SyncProducer, topic string) *KafkaQueue {
	if topic == "" {
		topic = DefaultBatchTopic
	}
	return &KafkaQueue{producer: producer, topic: topic}
}

// NewKafkaQueueFromBrokers dials brokers and returns a queue over a new
// synchronous producer.
func NewKafkaQueueFromBrokers(brokers []string, topic string, cfg *sarama.Config) (*KafkaQueue, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("queue: kafka producer: %w", err)
	}
	return NewKafkaQueue(producer, topic), nil
}

// Submit implements Queue.Submit. Batches are keyed by batch id so a
// partitioned topic keeps per-batch ordering.
func (q *KafkaQueue) Submit(ctx context.Context, b Batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("queue: encode batch: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(b.ID),
		Value: sarama.ByteEncoder(raw),
	}
	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return "", fmt.Errorf("queue: produce batch: %w", err)
	}
	return b.ID, nil
}

// Close shuts the underlying producer down.
func (q *KafkaQueue) Close() error {
	return q.producer.Close()
}
