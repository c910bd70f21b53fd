package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

var _ ProductRepository = (*memoryProductRepository)(nil)

// memoryProductRepository keeps products in process memory, listed in insertion order.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
	order    []string
}

func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]model.Product),
	}
}

func (r *memoryProductRepository) GetProduct(_ context.Context, id string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return model.Product{}, ErrProductNotFound
	}
	return product, nil
}

func (r *memoryProductRepository) ListAllProducts(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

func (r *memoryProductRepository) CreateProduct(_ context.Context, product model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		return ErrProductAlreadyExists
	}
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return nil
}

func (r *memoryProductRepository) UpdateProduct(_ context.Context, id string, params UpdateProductParams) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return model.Product{}, ErrProductNotFound
	}

	product = params.apply(product)
	r.products[id] = product
	return product, nil
}

func (r *memoryProductRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}
