package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stock-assistant/internal/apperr"
	"github.com/tuanvumaihuynh/stock-assistant/internal/http/apierr"
	"github.com/tuanvumaihuynh/stock-assistant/pkg/validator"
)

type createRequest struct {
	Name     string `json:"name" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required"`
}

func TestNew(t *testing.T) {
	t.Run("Should map not found", func(t *testing.T) {
		res := apierr.New(fmt.Errorf("product service get product: %w", apperr.ProductNotFoundErr))

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, "Product not found", res.Error)
	})

	t.Run("Should map method not allowed", func(t *testing.T) {
		res := apierr.New(apperr.MethodNotAllowedErr)

		assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
		assert.Equal(t, "Method not allowed", res.Error)
	})

	t.Run("Should keep the cause in internal errors", func(t *testing.T) {
		res := apierr.New(apperr.Internal("Failed to get products", errors.New("table missing")))

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, "Failed to get products: table missing", res.Error)
	})

	t.Run("Should map validation errors to bad request", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		res := apierr.New(v.Validate(createRequest{}))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "Validation failed: name field is required; quantity field is required", res.Error)
	})

	t.Run("Should fall back to internal server error", func(t *testing.T) {
		res := apierr.New(errors.New("unexpected"))

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, "unexpected", res.Error)
	})
}
