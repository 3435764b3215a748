package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/test"
)

type writerStub struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	writer := &writerStub{}
	publisher := NewKafkaPublisher(writer)
	occurred := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := publisher.Publish(context.Background(), model.OrderEvent{
		Type:           model.OrderEventStatusChanged,
		OrderID:        "o-1",
		OrderNumber:    "ORD-00000001-001",
		UserID:         "u-1",
		Status:         model.OrderStatusShipped,
		PreviousStatus: model.OrderStatusProcessing,
		TotalAmount:    12.5,
		OccurredAt:     occurred,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "o-1", string(msg.Key))
	assert.Equal(t, occurred, msg.Time)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "order.status_changed", payload["type"])
	assert.Equal(t, "shipped", payload["status"])
	assert.Equal(t, "processing", payload["previousStatus"])
	assert.Equal(t, 12.5, payload["totalAmount"])
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	publisher := NewKafkaPublisher(&writerStub{err: boom})

	err := publisher.Publish(context.Background(), model.OrderEvent{Type: model.OrderEventCreated})
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisherWithoutBrokersIsNop(t *testing.T) {
	lc := &test.LifecycleRecorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	publisher := newPublisher(lc, &config.Config{}, logger)
	assert.IsType(t, NopPublisher{}, publisher)
	assert.Empty(t, lc.Hooks)
	assert.NoError(t, publisher.Publish(context.Background(), model.OrderEvent{}))
}

func TestNewPublisherWithBrokersClosesOnStop(t *testing.T) {
	lc := &test.LifecycleRecorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	publisher := newPublisher(lc, &config.Config{KafkaBrokers: []string{"localhost:9092"}, OrderEventsTopic: "order-events"}, logger)
	assert.IsType(t, &KafkaPublisher{}, publisher)
	require.Len(t, lc.Hooks, 1)
	require.NotNil(t, lc.Hooks[0].OnStop)
	assert.NoError(t, lc.Start(context.Background()))
	assert.NoError(t, lc.Stop(context.Background()))
}
