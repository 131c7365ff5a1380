package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DefaultTopic is used when the config leaves the topic blank
const DefaultTopic = "shop-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope is the JSON value written to Kafka
type envelope struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Data        any       `json:"data"`
}

// KafkaPublisher writes events to a single topic, keyed by aggregate id so
// events for one record keep their order within a partition.
//
// The writer is asynchronous: Publish only queues the message, so an
// unreachable broker never slows down the request that caused the event.
// Delivery failures are logged from the writer's completion callback and
// Close flushes whatever is still queued.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, logger *zap.Logger, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             deliveryLogger(logger),
	}
	return &KafkaPublisher{writer: w}
}

func deliveryLogger(logger *zap.Logger) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, msg := range messages {
			logger.Warn("event delivery failed",
				zap.String("aggregate_id", string(msg.Key)),
				zap.String("topic", msg.Topic),
				zap.Error(err))
		}
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(envelope{
		Type:        event.Type,
		AggregateID: event.AggregateID,
		OccurredAt:  event.OccurredAt,
		Data:        event.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
