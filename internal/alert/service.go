package alert

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"

	"github.com/tuanvumaihuynh/stock-assistant/internal/config"
	"github.com/tuanvumaihuynh/stock-assistant/internal/event"
	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

const scanJobName = "low-stock-scan"

// LowStockLister lists the products that need restocking.
type LowStockLister interface {
	ListLowStockProducts(ctx context.Context) ([]model.Product, error)
}

// Service periodically scans the inventory and publishes a low-stock event per product.
type Service struct {
	cfg       config.Alert
	logger    *slog.Logger
	products  LowStockLister
	publisher event.Publisher
}

func NewService(
	cfg config.Alert,
	logger *slog.Logger,
	products LowStockLister,
	publisher event.Publisher,
) *Service {
	return &Service{
		cfg:       cfg,
		logger:    logger.With(slog.String("service", "alert")),
		products:  products,
		publisher: publisher,
	}
}

type CleanupFunc func() error

// Run schedules the scan every cfg.Interval, starting immediately.
func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLogger(newSchedulerLogger(s.logger)))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(s.scanTask, ctx),
		gocron.WithName(scanJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s job: %w", scanJobName, err)
	}

	scheduler.Start()

	return scheduler.Shutdown, nil
}

func (s *Service) scanTask(ctx context.Context) {
	n, err := s.Scan(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "low stock scan failed", slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "low stock scan completed", slog.Int("low_stock", n))
}

// Scan publishes one event per low-stock product and returns how many were found. Events
// are published concurrently; a failed publish is logged and does not stop the scan.
func (s *Service) Scan(ctx context.Context) (int, error) {
	low, err := s.products.ListLowStockProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list low stock products: %w", err)
	}

	if len(low) == 0 {
		return 0, nil
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed int
	)

	for _, product := range low {
		wg.Go(func() {
			ev := event.NewLowStockEvent(product)
			if err := s.publisher.PublishLowStock(ctx, ev); err != nil {
				s.logger.WarnContext(ctx, "error publishing low stock event",
					slog.String("product_id", product.ID),
					slog.Any("error", err))
				mu.Lock()
				failed++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	if failed > 0 {
		s.logger.WarnContext(ctx, "some low stock events were not published",
			slog.Int("failed", failed), slog.Int("total", len(low)))
	}

	return len(low), nil
}
