package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/mq"
)

// Service consumes inventory events and reports them.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(TopicLowStock, handle(s.handleLowStockEvent)); err != nil {
		return nil, fmt.Errorf("register low stock event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(TopicProductChanged, handle(s.handleProductChangedEvent)); err != nil {
		return nil, fmt.Errorf("register product changed event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// handle decodes the JSON payload into T before calling fn.
func handle[T any](fn func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}

func (s *Service) handleLowStockEvent(ctx context.Context, ev LowStockEvent) error {
	s.logger.WarnContext(ctx, "product needs restocking",
		slog.String("product_id", ev.ProductID),
		slog.String("name", ev.Name),
		slog.Int("quantity", ev.Quantity),
		slog.Int("min_threshold", ev.MinThreshold),
		slog.String("urgency", ev.Urgency.String()),
		slog.String("action", ev.Urgency.RecommendedAction()),
	)
	return nil
}

func (s *Service) handleProductChangedEvent(ctx context.Context, ev ProductChangedEvent) error {
	s.logger.InfoContext(ctx, "product changed",
		slog.String("action", string(ev.Action)),
		slog.String("product_id", ev.ProductID),
		slog.String("name", ev.Name),
		slog.Int("quantity", ev.Quantity),
	)
	return nil
}
