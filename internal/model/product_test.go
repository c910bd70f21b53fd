package model_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

func TestNewProductID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-F]{8}$`)

	seen := map[string]struct{}{}
	for range 50 {
		id := model.NewProductID()
		assert.Regexp(t, re, id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestFilterLowStock(t *testing.T) {
	products := []model.Product{
		{ID: "A", Quantity: 5, MinThreshold: 5},
		{ID: "B", Quantity: 6, MinThreshold: 5},
		{ID: "C", Quantity: 0, MinThreshold: 0},
		{ID: "D", Quantity: 1, MinThreshold: 3},
		{ID: "E", Invalid: model.ErrIncompleteRecord},
	}

	low := model.FilterLowStock(products)

	ids := make([]string, 0, len(low))
	for _, p := range low {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"A", "C", "D"}, ids)
}
