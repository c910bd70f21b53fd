package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductAlreadyExists is returned when creating a product whose id is taken.
	ErrProductAlreadyExists = errors.New("product already exists")
)

// UpdateProductParams holds a partial update. Nil fields are left untouched; UpdatedAt is
// always written.
type UpdateProductParams struct {
	Name         *string
	Quantity     *int
	MinThreshold *int
	Price        *decimal.Decimal
	Category     *string
	Description  *string
	UpdatedAt    time.Time
}

// ProductRepository is the inventory store, keyed by product id.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (model.Product, error)
	// ListAllProducts returns every product in the store's scan order.
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) error
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// apply returns the product with the supplied fields replaced.
func (params UpdateProductParams) apply(p model.Product) model.Product {
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Quantity != nil {
		p.Quantity = *params.Quantity
	}
	if params.MinThreshold != nil {
		p.MinThreshold = *params.MinThreshold
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	p.UpdatedAt = params.UpdatedAt
	return p
}
