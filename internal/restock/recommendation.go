package restock

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

// Recommendation is a reorder suggestion for a low-stock product.
type Recommendation struct {
	ProductID        string
	ProductName      string
	CurrentQuantity  int
	RecommendedOrder int
	Urgency          Urgency
	EstimatedCost    decimal.Decimal
	Reason           string
}

type RecommendationBatch struct {
	Items []Recommendation
	// TotalCost is the sum of the estimated costs rounded to cents.
	TotalCost decimal.Decimal
}

// ReorderQuantity is the larger of three times the threshold and twice the current stock.
func ReorderQuantity(quantity, minThreshold int) int {
	return max(minThreshold*3, quantity*2)
}

// Recommend builds the reorder suggestion for one product.
func Recommend(product model.Product) Recommendation {
	order := ReorderQuantity(product.Quantity, product.MinThreshold)

	return Recommendation{
		ProductID:        product.ID,
		ProductName:      product.Name,
		CurrentQuantity:  product.Quantity,
		RecommendedOrder: order,
		Urgency:          Classify(product.Quantity, product.MinThreshold),
		EstimatedCost:    product.Price.Mul(decimal.NewFromInt(int64(order))),
		Reason:           fmt.Sprintf("Stock below threshold (%d)", product.MinThreshold),
	}
}

// RecommendAll covers every low-stock product, most urgent and lowest stock first.
func RecommendAll(products []model.Product) RecommendationBatch {
	low := model.FilterLowStock(products)

	items := make([]Recommendation, 0, len(low))
	total := decimal.Zero
	for _, product := range low {
		rec := Recommend(product)
		total = total.Add(rec.EstimatedCost)
		items = append(items, rec)
	}

	slices.SortStableFunc(items, func(a, b Recommendation) int {
		return cmp.Or(
			cmp.Compare(a.Urgency.Rank(), b.Urgency.Rank()),
			cmp.Compare(a.CurrentQuantity, b.CurrentQuantity),
		)
	})

	return RecommendationBatch{
		Items:     items,
		TotalCost: total.Round(2),
	}
}
