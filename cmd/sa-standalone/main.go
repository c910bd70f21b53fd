package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	apicontract "github.com/tuanvumaihuynh/stock-assistant/api-contract"
	"github.com/tuanvumaihuynh/stock-assistant/internal/ai"
	"github.com/tuanvumaihuynh/stock-assistant/internal/alert"
	"github.com/tuanvumaihuynh/stock-assistant/internal/chat"
	"github.com/tuanvumaihuynh/stock-assistant/internal/cloud"
	"github.com/tuanvumaihuynh/stock-assistant/internal/config"
	"github.com/tuanvumaihuynh/stock-assistant/internal/event"
	"github.com/tuanvumaihuynh/stock-assistant/internal/http"
	"github.com/tuanvumaihuynh/stock-assistant/internal/log"
	"github.com/tuanvumaihuynh/stock-assistant/internal/restock"
	"github.com/tuanvumaihuynh/stock-assistant/internal/service"
	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/mq"
	"github.com/tuanvumaihuynh/stock-assistant/internal/telemetry"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/cmdutil"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log       config.Log
		HTTP      config.HTTP
		Store     config.Store
		Postgres  config.Postgres
		Redis     config.Redis
		DynamoDB  config.DynamoDB
		AWS       config.AWS
		Assistant config.Assistant
		Kafka     config.Kafka
		Alert     config.Alert
		Otel      config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	if cfg.HTTP.Swagger {
		if _, err := apicontract.Load(ctx); err != nil {
			return fmt.Errorf("error loading api contract: %w", err)
		}
	}

	awsCfg, err := cloud.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return fmt.Errorf("error loading aws config: %w", err)
	}

	productRepository, closeStore, err := newProductRepository(ctx, storeConfig{
		Store:    cfg.Store,
		Postgres: cfg.Postgres,
		Redis:    cfg.Redis,
		DynamoDB: cfg.DynamoDB,
	}, awsCfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher event.Publisher = event.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()

		publisher = event.NewMQPublisher(kafkaProducer)
	} else {
		logger.InfoContext(ctx, "kafka disabled, inventory events are not published")
	}

	var completer ai.Completer
	if cfg.Assistant.AIEnabled {
		completer = ai.NewBedrockCompleter(bedrockruntime.NewFromConfig(awsCfg), cfg.Assistant.ModelID)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productService := service.NewProductService(logger, productRepository, publisher)
	assistantService := service.NewAssistantService(
		logger,
		productRepository,
		chat.NewResponder(cfg.Assistant, logger, completer),
		restock.NewPredictor(),
	)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, productService, assistantService, v)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	if cfg.Alert.Enabled {
		wg.Go(func() {
			svc := alert.NewService(cfg.Alert, logger, productService, publisher)
			cleanup, err := svc.Run(ctx)
			if err != nil {
				panic(fmt.Errorf("error running alert service: %w", err))
			}
			logger.InfoContext(ctx, "alert service started", slog.Duration("interval", cfg.Alert.Interval))

			<-interruptChan

			logger.InfoContext(ctx, "alert service is shutting down")
			if err := cleanup(); err != nil {
				logger.ErrorContext(ctx, "error shutting down alert service", slog.Any("error", err))
			}

			logger.InfoContext(ctx, "alert service is stopped")
		})
	}

	wg.Wait()

	return nil
}
