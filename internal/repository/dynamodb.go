package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

const dynamoKeyAttr = "product_id"

// DynamoDBAPI is the subset of the DynamoDB client used by the product store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoProduct keeps numeric fields as pointers so an item lacking them is told apart from
// one holding zero. Timestamps are strings because older tables hold zone-less values.
type dynamoProduct struct {
	ProductID    string                `dynamodbav:"product_id"`
	Name         string                `dynamodbav:"name"`
	Quantity     *int                  `dynamodbav:"quantity"`
	MinThreshold *int                  `dynamodbav:"min_threshold"`
	Price        attributevalue.Number `dynamodbav:"price"`
	Category     string                `dynamodbav:"category"`
	Description  string                `dynamodbav:"description"`
	CreatedAt    string                `dynamodbav:"created_at"`
	UpdatedAt    string                `dynamodbav:"updated_at"`
}

func newDynamoProduct(p model.Product) dynamoProduct {
	return dynamoProduct{
		ProductID:    p.ID,
		Name:         p.Name,
		Quantity:     &p.Quantity,
		MinThreshold: &p.MinThreshold,
		Price:        attributevalue.Number(p.Price.String()),
		Category:     p.Category,
		Description:  p.Description,
		CreatedAt:    formatTimestamp(p.CreatedAt),
		UpdatedAt:    formatTimestamp(p.UpdatedAt),
	}
}

func (d dynamoProduct) toModel() (model.Product, error) {
	price := decimal.Zero
	if d.Price != "" {
		var err error
		if price, err = decimal.NewFromString(string(d.Price)); err != nil {
			return model.Product{}, fmt.Errorf("parse price of %s: %w", d.ProductID, err)
		}
	}

	createdAt, err := parseTimestamp(d.CreatedAt)
	if err != nil {
		return model.Product{}, fmt.Errorf("parse created_at of %s: %w", d.ProductID, err)
	}
	updatedAt, err := parseTimestamp(d.UpdatedAt)
	if err != nil {
		return model.Product{}, fmt.Errorf("parse updated_at of %s: %w", d.ProductID, err)
	}

	p := model.Product{
		ID:          d.ProductID,
		Name:        d.Name,
		Price:       price,
		Category:    d.Category,
		Description: d.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	var missing []string
	if d.Quantity == nil {
		missing = append(missing, "quantity")
	} else {
		p.Quantity = *d.Quantity
	}
	if d.MinThreshold == nil {
		missing = append(missing, "min_threshold")
	} else {
		p.MinThreshold = *d.MinThreshold
	}
	if len(missing) > 0 {
		p.Invalid = fmt.Errorf("%w: missing %s", model.ErrIncompleteRecord, strings.Join(missing, ", "))
	}

	return p, nil
}

var _ ProductRepository = (*dynamoProductRepository)(nil)

type dynamoProductRepository struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoProductRepository(client DynamoDBAPI, table string) ProductRepository {
	return &dynamoProductRepository{
		client: client,
		table:  table,
	}
}

func (r *dynamoProductRepository) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		dynamoKeyAttr: &types.AttributeValueMemberS{Value: id},
	}
}

func (r *dynamoProductRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(id),
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return model.Product{}, ErrProductNotFound
	}

	return unmarshalDynamoProduct(out.Item)
}

func (r *dynamoProductRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}

		for _, item := range page.Items {
			product, err := unmarshalDynamoProduct(item)
			if err != nil {
				return nil, err
			}
			products = append(products, product)
		}
	}

	return products, nil
}

func (r *dynamoProductRepository) CreateProduct(ctx context.Context, product model.Product) error {
	item, err := attributevalue.MarshalMap(newDynamoProduct(product))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + dynamoKeyAttr + ")"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (r *dynamoProductRepository) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error) {
	update := expression.Set(expression.Name("updated_at"), expression.Value(formatTimestamp(params.UpdatedAt)))
	if params.Name != nil {
		update = update.Set(expression.Name("name"), expression.Value(*params.Name))
	}
	if params.Quantity != nil {
		update = update.Set(expression.Name("quantity"), expression.Value(*params.Quantity))
	}
	if params.MinThreshold != nil {
		update = update.Set(expression.Name("min_threshold"), expression.Value(*params.MinThreshold))
	}
	if params.Price != nil {
		update = update.Set(expression.Name("price"), expression.Value(attributevalue.Number(params.Price.String())))
	}
	if params.Category != nil {
		update = update.Set(expression.Name("category"), expression.Value(*params.Category))
	}
	if params.Description != nil {
		update = update.Set(expression.Name("description"), expression.Value(*params.Description))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(dynamoKeyAttr))).
		Build()
	if err != nil {
		return model.Product{}, fmt.Errorf("build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("update item: %w", err)
	}

	return unmarshalDynamoProduct(out.Attributes)
}

func (r *dynamoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 r.key(id),
		ConditionExpression: aws.String("attribute_exists(" + dynamoKeyAttr + ")"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func unmarshalDynamoProduct(item map[string]types.AttributeValue) (model.Product, error) {
	var record dynamoProduct
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return model.Product{}, fmt.Errorf("unmarshal product: %w", err)
	}
	return record.toModel()
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
