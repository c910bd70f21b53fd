package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-assistant/internal/repository"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/ptr"
)

var productColumns = []string{
	"product_id", "name", "quantity", "min_threshold", "price",
	"category", "description", "created_at", "updated_at",
}

func newPgxMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestPostgresProductRepository_GetProduct(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should scan product row", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE product_id = $1")).
			WithArgs("A1B2C3D4").
			WillReturnRows(pgxmock.NewRows(productColumns).
				AddRow("A1B2C3D4", "Widget", 3, 5, "12.50", "Tools", "", now, now))

		product, err := repo.GetProduct(ctx, "A1B2C3D4")
		require.NoError(t, err)

		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, 3, product.Quantity)
		assert.Equal(t, "12.5", product.Price.String())
		assert.Equal(t, now, product.CreatedAt)
	})

	t.Run("Should map no rows to not found", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE product_id = $1")).
			WithArgs("MISSING").
			WillReturnRows(pgxmock.NewRows(productColumns))

		_, err := repo.GetProduct(ctx, "MISSING")
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

func TestPostgresProductRepository_ListAllProducts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should return rows in query order", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("FROM products ORDER BY created_at")).
			WillReturnRows(pgxmock.NewRows(productColumns).
				AddRow("A", "Anchor", 10, 5, "2.00", "General", "", now, now).
				AddRow("B", "Bolt", 0, 5, "0.10", "General", "", now, now))

		products, err := repo.ListAllProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "A", products[0].ID)
		assert.Equal(t, "B", products[1].ID)
		assert.Equal(t, "0.1", products[1].Price.String())
	})

	t.Run("Should wrap query errors", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("FROM products ORDER BY created_at")).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.ListAllProducts(ctx)
		assert.ErrorContains(t, err, "query products: connection reset")
	})
}

func TestPostgresProductRepository_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should insert product", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)
		product := newProduct("A1B2C3D4", "Widget", 3, 5)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
			WithArgs("A1B2C3D4", "Widget", 3, 5, "4.5", "General", "", product.CreatedAt, product.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.CreateProduct(ctx, product))
	})

	t.Run("Should map unique violation to already exists", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.CreateProduct(ctx, newProduct("A", "Anchor", 1, 5))
		assert.ErrorIs(t, err, repository.ErrProductAlreadyExists)
	})
}

func TestPostgresProductRepository_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	updatedAt := created.Add(time.Hour)

	t.Run("Should return updated row", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE products SET")).
			WithArgs("A", pgxmock.AnyArg(), ptr.New(7), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), updatedAt).
			WillReturnRows(pgxmock.NewRows(productColumns).
				AddRow("A", "Anchor", 7, 5, "2.00", "General", "", created, updatedAt))

		product, err := repo.UpdateProduct(ctx, "A", repository.UpdateProductParams{
			Quantity:  ptr.New(7),
			UpdatedAt: updatedAt,
		})
		require.NoError(t, err)
		assert.Equal(t, 7, product.Quantity)
		assert.Equal(t, updatedAt, product.UpdatedAt)
	})

	t.Run("Should map no rows to not found", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE products SET")).
			WithArgs("MISSING", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(productColumns))

		_, err := repo.UpdateProduct(ctx, "MISSING", repository.UpdateProductParams{UpdatedAt: updatedAt})
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

func TestPostgresProductRepository_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete existing product", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
			WithArgs("A").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteProduct(ctx, "A"))
	})

	t.Run("Should report not found when nothing was deleted", func(t *testing.T) {
		mock := newPgxMock(t)
		repo := repository.NewPostgresProductRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products")).
			WithArgs("MISSING").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.DeleteProduct(ctx, "MISSING"), repository.ErrProductNotFound)
	})
}
