package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

// KEYS[1] product hash, KEYS[2] id index; ARGV[1] id, ARGV[2] score, ARGV[3:] field/value pairs.
var createProductScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[1])
return 1
`)

// KEYS[1] product hash; ARGV field/value pairs.
var updateProductScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return redis.call('HGETALL', KEYS[1])
`)

var _ ProductRepository = (*redisProductRepository)(nil)

// redisProductRepository stores each product as a hash and keeps ids in a sorted set scored by
// creation time.
type redisProductRepository struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedisProductRepository(client redis.UniversalClient, keyPrefix string) ProductRepository {
	return &redisProductRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *redisProductRepository) productKey(id string) string {
	return r.keyPrefix + "product:" + id
}

func (r *redisProductRepository) indexKey() string {
	return r.keyPrefix + "products"
}

func (r *redisProductRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	fields, err := r.client.HGetAll(ctx, r.productKey(id)).Result()
	if err != nil {
		return model.Product{}, fmt.Errorf("hgetall product: %w", err)
	}
	if len(fields) == 0 {
		return model.Product{}, ErrProductNotFound
	}
	return decodeRedisProduct(fields)
}

func (r *redisProductRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange product ids: %w", err)
	}

	products := make([]model.Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, r.productKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("hgetall products: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// index entry outlived its hash
			continue
		}
		product, err := decodeRedisProduct(fields)
		if err != nil {
			return nil, err
		}
		if product.ID == "" {
			product.ID = ids[i]
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *redisProductRepository) CreateProduct(ctx context.Context, product model.Product) error {
	args := []any{product.ID, product.CreatedAt.UnixMilli()}
	args = append(args, encodeRedisProduct(product)...)

	created, err := createProductScript.Run(ctx, r.client,
		[]string{r.productKey(product.ID), r.indexKey()}, args...).Int()
	if err != nil {
		return fmt.Errorf("run create product script: %w", err)
	}
	if created == 0 {
		return ErrProductAlreadyExists
	}
	return nil
}

func (r *redisProductRepository) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error) {
	args := []any{"updated_at", formatTimestamp(params.UpdatedAt)}
	if params.Name != nil {
		args = append(args, "name", *params.Name)
	}
	if params.Quantity != nil {
		args = append(args, "quantity", *params.Quantity)
	}
	if params.MinThreshold != nil {
		args = append(args, "min_threshold", *params.MinThreshold)
	}
	if params.Price != nil {
		args = append(args, "price", params.Price.String())
	}
	if params.Category != nil {
		args = append(args, "category", *params.Category)
	}
	if params.Description != nil {
		args = append(args, "description", *params.Description)
	}

	pairs, err := updateProductScript.Run(ctx, r.client, []string{r.productKey(id)}, args...).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("run update product script: %w", err)
	}

	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return decodeRedisProduct(fields)
}

func (r *redisProductRepository) DeleteProduct(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.productKey(id))
	pipe.ZRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if del.Val() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func encodeRedisProduct(p model.Product) []any {
	return []any{
		"product_id", p.ID,
		"name", p.Name,
		"quantity", p.Quantity,
		"min_threshold", p.MinThreshold,
		"price", p.Price.String(),
		"category", p.Category,
		"description", p.Description,
		"created_at", formatTimestamp(p.CreatedAt),
		"updated_at", formatTimestamp(p.UpdatedAt),
	}
}

func decodeRedisProduct(fields map[string]string) (model.Product, error) {
	p := model.Product{
		ID:          fields["product_id"],
		Name:        fields["name"],
		Category:    fields["category"],
		Description: fields["description"],
	}

	var missing []string
	if v, ok := fields["quantity"]; !ok {
		missing = append(missing, "quantity")
	} else if n, err := strconv.Atoi(v); err != nil {
		return model.Product{}, fmt.Errorf("parse quantity of %s: %w", p.ID, err)
	} else {
		p.Quantity = n
	}
	if v, ok := fields["min_threshold"]; !ok {
		missing = append(missing, "min_threshold")
	} else if n, err := strconv.Atoi(v); err != nil {
		return model.Product{}, fmt.Errorf("parse min_threshold of %s: %w", p.ID, err)
	} else {
		p.MinThreshold = n
	}
	if len(missing) > 0 {
		p.Invalid = fmt.Errorf("%w: missing %s", model.ErrIncompleteRecord, strings.Join(missing, ", "))
	}

	var err error
	p.Price = decimal.Zero
	if v := fields["price"]; v != "" {
		if p.Price, err = decimal.NewFromString(v); err != nil {
			return model.Product{}, fmt.Errorf("parse price of %s: %w", p.ID, err)
		}
	}
	if p.CreatedAt, err = parseTimestamp(fields["created_at"]); err != nil {
		return model.Product{}, fmt.Errorf("parse created_at of %s: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTimestamp(fields["updated_at"]); err != nil {
		return model.Product{}, fmt.Errorf("parse updated_at of %s: %w", p.ID, err)
	}

	return p, nil
}
