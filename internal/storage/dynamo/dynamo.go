package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tuanvumaihuynh/stock-assistant/internal/config"
)

// NewClient creates a DynamoDB client and checks that the product table exists.
func NewClient(ctx context.Context, awsCfg aws.Config, cfg config.DynamoDB) (*dynamodb.Client, error) {
	client := dynamodb.NewFromConfig(awsCfg)

	describeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := client.DescribeTable(describeCtx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.Table),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("dynamodb table %q does not exist", cfg.Table)
		}
		return nil, fmt.Errorf("describe dynamodb table: %w", err)
	}

	return client, nil
}
