package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tuanvumaihuynh/stock-assistant/internal/config"
	"github.com/tuanvumaihuynh/stock-assistant/internal/repository"
	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/dynamo"
	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/kv"
)

type storeConfig struct {
	Store    config.Store
	Postgres config.Postgres
	Redis    config.Redis
	DynamoDB config.DynamoDB
}

// newProductRepository opens the configured store. The returned func releases its connections.
func newProductRepository(
	ctx context.Context,
	cfg storeConfig,
	awsCfg aws.Config,
	logger *slog.Logger,
) (repository.ProductRepository, func(), error) {
	logger = logger.With(slog.String("store", cfg.Store.Driver.String()))

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating pgx pool: %w", err)
		}
		logger.InfoContext(ctx, "connected to postgres")
		return repository.NewPostgresProductRepository(db.NewClient(pgxPool)), pgxPool.Close, nil

	case config.StoreDriverDynamoDB:
		client, err := dynamo.NewClient(ctx, awsCfg, cfg.DynamoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating dynamodb client: %w", err)
		}
		logger.InfoContext(ctx, "connected to dynamodb", slog.String("table", cfg.DynamoDB.Table))
		return repository.NewDynamoProductRepository(client, cfg.DynamoDB.Table), func() {}, nil

	case config.StoreDriverRedis:
		client, err := kv.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating redis client: %w", err)
		}
		logger.InfoContext(ctx, "connected to redis", slog.String("addr", cfg.Redis.Addr))
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.ErrorContext(ctx, "error closing redis client", slog.Any("error", err))
			}
		}
		return repository.NewRedisProductRepository(client, cfg.Redis.KeyPrefix), closeClient, nil

	default:
		logger.WarnContext(ctx, "using in-memory store, data is lost on restart")
		return repository.NewMemoryProductRepository(), func() {}, nil
	}
}
