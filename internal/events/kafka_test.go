package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type writerMock struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *writerMock) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *writerMock) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	mock := &writerMock{}
	publisher := &KafkaPublisher{writer: mock}
	occurred := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

	err := publisher.Publish(context.Background(), Event{
		Type:        OrderCreated,
		AggregateID: "order-1",
		Payload:     map[string]any{"totalAmount": 30},
		OccurredAt:  occurred,
	})
	require.NoError(t, err)
	require.Len(t, mock.messages, 1)

	msg := mock.messages[0]
	assert.Equal(t, "order-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, OrderCreated, string(msg.Headers[0].Value))

	var decoded struct {
		Type        string         `json:"type"`
		AggregateID string         `json:"aggregate_id"`
		OccurredAt  time.Time      `json:"occurred_at"`
		Data        map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, OrderCreated, decoded.Type)
	assert.Equal(t, "order-1", decoded.AggregateID)
	assert.True(t, occurred.Equal(decoded.OccurredAt))
	assert.Equal(t, 30.0, decoded.Data["totalAmount"])
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	mock := &writerMock{err: errors.New("broker down")}
	publisher := &KafkaPublisher{writer: mock}

	err := publisher.Publish(context.Background(), Event{Type: ProductCreated, AggregateID: "p-1"})
	require.ErrorContains(t, err, "kafka write failed")
}

func TestKafkaPublisher_UnmarshalablePayload(t *testing.T) {
	mock := &writerMock{}
	publisher := &KafkaPublisher{writer: mock}

	err := publisher.Publish(context.Background(), Event{Type: ProductCreated, Payload: make(chan int)})
	require.ErrorContains(t, err, "marshal event failed")
	assert.Empty(t, mock.messages)
}

func TestKafkaPublisher_Close(t *testing.T) {
	mock := &writerMock{}
	publisher := &KafkaPublisher{writer: mock}

	require.NoError(t, publisher.Close())
	assert.True(t, mock.closed)
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	publisher := NewKafkaPublisher("", zap.NewNop(), "localhost:9092")
	w, ok := publisher.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.True(t, w.Async)
	assert.NoError(t, publisher.Close())
}

func TestDeliveryLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logDelivery := deliveryLogger(zap.New(core))

	logDelivery([]kafka.Message{{Key: []byte("order-1"), Topic: DefaultTopic}}, nil)
	assert.Equal(t, 0, logs.Len())

	logDelivery([]kafka.Message{
		{Key: []byte("order-1"), Topic: DefaultTopic},
		{Key: []byte("order-2"), Topic: DefaultTopic},
	}, errors.New("broker down"))
	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "event delivery failed", entry.Message)
	assert.Equal(t, "order-1", entry.ContextMap()["aggregate_id"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: UserRegistered}))
	assert.NoError(t, p.Close())
}
