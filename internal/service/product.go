package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/apperr"
	"github.com/tuanvumaihuynh/stock-assistant/internal/event"
	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
	"github.com/tuanvumaihuynh/stock-assistant/internal/repository"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/ptr"
)

const maxCreateAttempts = 3

// CreateProductParams carries a new product. Nil optional fields take their defaults.
type CreateProductParams struct {
	Name         string
	Quantity     int
	MinThreshold *int
	Price        *decimal.Decimal
	Category     *string
	Description  *string
}

// UpdateProductParams carries a partial update; nil fields are left unchanged.
type UpdateProductParams struct {
	Name         *string
	Quantity     *int
	MinThreshold *int
	Price        *decimal.Decimal
	Category     *string
	Description  *string
}

type ProductService interface {
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// ListLowStockProducts returns the products at or below their threshold in store order.
	ListLowStockProducts(ctx context.Context) ([]model.Product, error)
}

type productService struct {
	logger      *slog.Logger
	productRepo repository.ProductRepository
	publisher   event.Publisher
	now         func() time.Time
	newID       func() string
}

func NewProductService(
	logger *slog.Logger,
	productRepo repository.ProductRepository,
	publisher event.Publisher,
) ProductService {
	return &productService{
		logger:      logger.With(slog.String("service", "product")),
		productRepo: productRepo,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       model.NewProductID,
	}
}

func (s *productService) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to get products", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, apperr.Internal("Failed to get product", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	now := s.now()
	product := model.Product{
		Name:         params.Name,
		Quantity:     params.Quantity,
		MinThreshold: ptr.ValueOr(params.MinThreshold, model.DefaultMinThreshold),
		Price:        ptr.ValueOr(params.Price, decimal.Zero),
		Category:     ptr.ValueOr(params.Category, model.DefaultCategory),
		Description:  ptr.ValueOr(params.Description, ""),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var err error
	for range maxCreateAttempts {
		product.ID = s.newID()
		err = s.productRepo.CreateProduct(ctx, product)
		if !errors.Is(err, repository.ErrProductAlreadyExists) {
			break
		}
	}
	if err != nil {
		return model.Product{}, apperr.Internal("Failed to create product", fmt.Errorf("product repository create product: %w", err))
	}

	s.publishChanged(ctx, event.ProductCreated, product)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (model.Product, error) {
	product, err := s.productRepo.UpdateProduct(ctx, id, repository.UpdateProductParams{
		Name:         params.Name,
		Quantity:     params.Quantity,
		MinThreshold: params.MinThreshold,
		Price:        params.Price,
		Category:     params.Category,
		Description:  params.Description,
		UpdatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, apperr.Internal("Failed to update product", err)
	}

	s.publishChanged(ctx, event.ProductUpdated, product)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperr.ProductNotFoundErr.WrapParent(err)
		}
		return apperr.Internal("Failed to delete product", err)
	}

	s.publishChanged(ctx, event.ProductDeleted, product)

	return nil
}

func (s *productService) ListLowStockProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to get alerts", err)
	}

	return model.FilterLowStock(products), nil
}

// publishChanged emits the change event, and a low-stock event when a live product is low.
// The mutation is already stored, so failures are only logged.
func (s *productService) publishChanged(ctx context.Context, action event.ProductAction, product model.Product) {
	if err := s.publisher.PublishProductChanged(ctx, event.NewProductChangedEvent(action, product)); err != nil {
		s.logger.WarnContext(ctx, "error publishing product changed event",
			slog.String("product_id", product.ID),
			slog.Any("error", err))
	}

	if action == event.ProductDeleted || !product.IsLowStock() {
		return
	}

	if err := s.publisher.PublishLowStock(ctx, event.NewLowStockEvent(product)); err != nil {
		s.logger.WarnContext(ctx, "error publishing low stock event",
			slog.String("product_id", product.ID),
			slog.Any("error", err))
	}
}
