package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-assistant/internal/apperr"
	"github.com/tuanvumaihuynh/stock-assistant/internal/event"
	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
	"github.com/tuanvumaihuynh/stock-assistant/internal/repository"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/ptr"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/zerror"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishProductChanged(ctx context.Context, ev event.ProductChangedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) PublishLowStock(ctx context.Context, ev event.LowStockEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// failingRepository fails every call with err.
type failingRepository struct {
	repository.ProductRepository
	err error
}

func (r failingRepository) GetProduct(context.Context, string) (model.Product, error) {
	return model.Product{}, r.err
}

func (r failingRepository) ListAllProducts(context.Context) ([]model.Product, error) {
	return nil, r.err
}

func (r failingRepository) CreateProduct(context.Context, model.Product) error {
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock() func() time.Time {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newTestProductService(repo repository.ProductRepository, publisher event.Publisher) *productService {
	svc := NewProductService(discardLogger(), repo, publisher).(*productService)
	svc.now = fixedClock()
	return svc
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply defaults and publish events", func(t *testing.T) {
		publisher := &mockPublisher{}
		publisher.On("PublishProductChanged", mock.Anything, mock.MatchedBy(func(ev event.ProductChangedEvent) bool {
			return ev.Action == event.ProductCreated && ev.Name == "Widget"
		})).Return(nil).Once()
		publisher.On("PublishLowStock", mock.Anything, mock.Anything).Return(nil).Once()

		repo := repository.NewMemoryProductRepository()
		svc := newTestProductService(repo, publisher)

		product, err := svc.CreateProduct(ctx, CreateProductParams{Name: "Widget", Quantity: 2})
		require.NoError(t, err)

		assert.Regexp(t, `^[0-9A-F]{8}$`, product.ID)
		assert.Equal(t, model.DefaultMinThreshold, product.MinThreshold)
		assert.Equal(t, model.DefaultCategory, product.Category)
		assert.Empty(t, product.Description)
		assert.True(t, product.Price.IsZero())
		assert.Equal(t, product.CreatedAt, product.UpdatedAt)

		stored, err := repo.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product, stored)

		publisher.AssertExpectations(t)
	})

	t.Run("Should skip low stock event for healthy stock", func(t *testing.T) {
		publisher := &mockPublisher{}
		publisher.On("PublishProductChanged", mock.Anything, mock.Anything).Return(nil).Once()

		svc := newTestProductService(repository.NewMemoryProductRepository(), publisher)

		_, err := svc.CreateProduct(ctx, CreateProductParams{
			Name:         "Drill",
			Quantity:     50,
			MinThreshold: ptr.New(10),
			Price:        ptr.New(decimal.RequireFromString("89.99")),
			Category:     ptr.New("Tools"),
		})
		require.NoError(t, err)

		publisher.AssertExpectations(t)
		publisher.AssertNotCalled(t, "PublishLowStock", mock.Anything, mock.Anything)
	})

	t.Run("Should retry on id collision", func(t *testing.T) {
		repo := repository.NewMemoryProductRepository()
		svc := newTestProductService(repo, event.NoopPublisher{})

		ids := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
		svc.newID = func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}

		first, err := svc.CreateProduct(ctx, CreateProductParams{Name: "One", Quantity: 1})
		require.NoError(t, err)
		second, err := svc.CreateProduct(ctx, CreateProductParams{Name: "Two", Quantity: 1})
		require.NoError(t, err)

		assert.Equal(t, "AAAAAAAA", first.ID)
		assert.Equal(t, "BBBBBBBB", second.ID)
	})

	t.Run("Should keep the product when publishing fails", func(t *testing.T) {
		publisher := &mockPublisher{}
		publisher.On("PublishProductChanged", mock.Anything, mock.Anything).Return(errors.New("broker down"))
		publisher.On("PublishLowStock", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		svc := newTestProductService(repository.NewMemoryProductRepository(), publisher)

		_, err := svc.CreateProduct(ctx, CreateProductParams{Name: "Widget", Quantity: 0})
		assert.NoError(t, err)
	})

	t.Run("Should report store failures as internal errors", func(t *testing.T) {
		svc := newTestProductService(failingRepository{err: errors.New("boom")}, event.NoopPublisher{})

		_, err := svc.CreateProduct(ctx, CreateProductParams{Name: "Widget", Quantity: 1})

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, zerror.StatusInternalServerError, zErr.Status())
		assert.Equal(t, "Failed to create product: product repository create product: boom", zErr.Msg())
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should change only supplied fields and bump updated_at", func(t *testing.T) {
		svc := newTestProductService(repository.NewMemoryProductRepository(), event.NoopPublisher{})

		created, err := svc.CreateProduct(ctx, CreateProductParams{
			Name:     "Widget",
			Quantity: 10,
			Price:    ptr.New(decimal.RequireFromString("2.50")),
		})
		require.NoError(t, err)

		updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductParams{Quantity: ptr.New(4)})
		require.NoError(t, err)

		assert.Equal(t, 4, updated.Quantity)
		assert.Equal(t, created.Name, updated.Name)
		assert.True(t, created.Price.Equal(updated.Price))
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("Should bump updated_at on empty update", func(t *testing.T) {
		svc := newTestProductService(repository.NewMemoryProductRepository(), event.NoopPublisher{})

		created, err := svc.CreateProduct(ctx, CreateProductParams{Name: "Widget", Quantity: 10})
		require.NoError(t, err)

		updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductParams{})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("Should report missing product", func(t *testing.T) {
		svc := newTestProductService(repository.NewMemoryProductRepository(), event.NoopPublisher{})

		_, err := svc.UpdateProduct(ctx, "MISSING", UpdateProductParams{Name: ptr.New("x")})
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete and publish deleted event", func(t *testing.T) {
		publisher := &mockPublisher{}
		publisher.On("PublishProductChanged", mock.Anything, mock.Anything).Return(nil)

		svc := newTestProductService(repository.NewMemoryProductRepository(), publisher)
		created, err := svc.CreateProduct(ctx, CreateProductParams{Name: "Drill", Quantity: 50})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProduct(ctx, created.ID))

		_, err = svc.GetProduct(ctx, created.ID)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)

		publisher.AssertCalled(t, "PublishProductChanged", mock.Anything,
			event.NewProductChangedEvent(event.ProductDeleted, created))
	})

	t.Run("Should report missing product", func(t *testing.T) {
		svc := newTestProductService(repository.NewMemoryProductRepository(), event.NoopPublisher{})

		err := svc.DeleteProduct(ctx, "MISSING")

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "Product not found", zErr.Msg())
	})
}

func TestProductService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("Should filter low stock products in store order", func(t *testing.T) {
		svc := newTestProductService(repository.NewMemoryProductRepository(), event.NoopPublisher{})
		for _, p := range []CreateProductParams{
			{Name: "A", Quantity: 0},
			{Name: "B", Quantity: 50},
			{Name: "C", Quantity: 5},
		} {
			_, err := svc.CreateProduct(ctx, p)
			require.NoError(t, err)
		}

		low, err := svc.ListLowStockProducts(ctx)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "A", low[0].Name)
		assert.Equal(t, "C", low[1].Name)

		all, err := svc.ListAllProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Should prefix store failures", func(t *testing.T) {
		svc := newTestProductService(failingRepository{err: errors.New("boom")}, event.NoopPublisher{})

		_, err := svc.ListAllProducts(ctx)
		assert.EqualError(t, errors.Unwrap(err), "boom")

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "Failed to get products: boom", zErr.Msg())

		_, err = svc.ListLowStockProducts(ctx)
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "Failed to get alerts: boom", zErr.Msg())

		_, err = svc.GetProduct(ctx, "A")
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "Failed to get product: boom", zErr.Msg())
	})
}
