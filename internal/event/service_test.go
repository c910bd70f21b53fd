package event_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-assistant/internal/event"
	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
	stopped  bool
}

func (f *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if f.handlers == nil {
		f.handlers = make(map[string]mq.HandlerFunc)
	}
	f.handlers[topic] = handler
	return nil
}

func (f *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	f.running = true
	return func() { f.stopped = true }, nil
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	consumer := &fakeConsumer{}
	svc := event.New(slog.New(slog.NewTextHandler(io.Discard, nil)), consumer)

	cleanup, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.True(t, consumer.running)

	t.Run("Should register both topics", func(t *testing.T) {
		assert.Contains(t, consumer.handlers, event.TopicLowStock)
		assert.Contains(t, consumer.handlers, event.TopicProductChanged)
	})

	t.Run("Should handle low stock payload", func(t *testing.T) {
		payload := []byte(`{"product_id":"A","name":"Widget","quantity":1,"min_threshold":5,"urgency":"High"}`)

		err := consumer.handlers[event.TopicLowStock](ctx, event.TopicLowStock, payload)
		assert.NoError(t, err)
	})

	t.Run("Should reject malformed payload", func(t *testing.T) {
		err := consumer.handlers[event.TopicLowStock](ctx, event.TopicLowStock, []byte(`{"urgency":"Unknown"}`))
		assert.ErrorContains(t, err, "unmarshal stock.low event")
	})

	cleanup()
	assert.True(t, consumer.stopped)
}
