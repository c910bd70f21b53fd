package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultMinThreshold = 5
	DefaultCategory     = "General"

	productIDLength = 8
)

// ErrIncompleteRecord marks a stored product that lacks a required numeric field.
var ErrIncompleteRecord = errors.New("incomplete stock record")

type Product struct {
	ID           string
	Name         string
	Quantity     int
	MinThreshold int
	Price        decimal.Decimal
	Category     string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Invalid is set by schemaless stores when the record could not be read in full.
	// Quantity and MinThreshold are meaningless while it is non-nil.
	Invalid error
}

// IsLowStock reports whether the product is at or below its reorder point. Invalid records
// are never low stock.
func (p Product) IsLowStock() bool {
	return p.Invalid == nil && p.Quantity <= p.MinThreshold
}

// NewProductID returns an 8 character upper-case identifier cut from a random UUID.
func NewProductID() string {
	return strings.ToUpper(uuid.NewString()[:productIDLength])
}

// FilterLowStock returns the low-stock products in their original order.
func FilterLowStock(products []Product) []Product {
	low := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}
