package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/mq"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/mqheader"
)

// Publisher emits inventory events.
type Publisher interface {
	PublishProductChanged(ctx context.Context, ev ProductChangedEvent) error
	PublishLowStock(ctx context.Context, ev LowStockEvent) error
}

var (
	_ Publisher = (*MQPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

// MQPublisher writes events to the message queue keyed by product id.
type MQPublisher struct {
	producer mq.Producer
}

func NewMQPublisher(producer mq.Producer) *MQPublisher {
	return &MQPublisher{producer: producer}
}

func (p *MQPublisher) PublishProductChanged(ctx context.Context, ev ProductChangedEvent) error {
	return p.publish(ctx, TopicProductChanged, ev.ProductID, ev)
}

func (p *MQPublisher) PublishLowStock(ctx context.Context, ev LowStockEvent) error {
	return p.publish(ctx, TopicLowStock, ev.ProductID, ev)
}

func (p *MQPublisher) publish(ctx context.Context, topic, key string, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	if err := p.producer.Produce(ctx, mq.ProduceMsg{
		Topic:        topic,
		Headers:      mqheader.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: &key,
	}); err != nil {
		return fmt.Errorf("produce %s event: %w", topic, err)
	}

	return nil
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProductChanged(context.Context, ProductChangedEvent) error { return nil }

func (NoopPublisher) PublishLowStock(context.Context, LowStockEvent) error { return nil }
