package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
	"github.com/tuanvumaihuynh/stock-assistant/internal/storage/db"
)

const productColumns = `product_id, name, quantity, min_threshold, price::text, category, description, created_at, updated_at`

const getProductQuery = `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

const listProductsQuery = `SELECT ` + productColumns + ` FROM products ORDER BY created_at, product_id`

const createProductQuery = `INSERT INTO products (
	product_id, name, quantity, min_threshold, price, category, description, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`

const updateProductQuery = `UPDATE products SET
	name = COALESCE($2, name),
	quantity = COALESCE($3, quantity),
	min_threshold = COALESCE($4, min_threshold),
	price = COALESCE($5::numeric, price),
	category = COALESCE($6, category),
	description = COALESCE($7, description),
	updated_at = $8
WHERE product_id = $1
RETURNING ` + productColumns

const deleteProductQuery = `DELETE FROM products WHERE product_id = $1`

const uniqueViolationCode = "23505"

var _ ProductRepository = (*postgresProductRepository)(nil)

type postgresProductRepository struct {
	db db.DB
}

func NewPostgresProductRepository(db db.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, getProductQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product model.Product) error {
	_, err := r.db.Exec(ctx, createProductQuery,
		product.ID,
		product.Name,
		product.Quantity,
		product.MinThreshold,
		product.Price.String(),
		product.Category,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error) {
	var price *string
	if params.Price != nil {
		s := params.Price.String()
		price = &s
	}

	row := r.db.QueryRow(ctx, updateProductQuery,
		id,
		params.Name,
		params.Quantity,
		params.MinThreshold,
		price,
		params.Category,
		params.Description,
		params.UpdatedAt,
	)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p     model.Product
		price string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Quantity,
		&p.MinThreshold,
		&price,
		&p.Category,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Product{}, err
	}

	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return model.Product{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	return p, nil
}
