package chat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

const helpText = "I can help you with stock information. Try asking about product quantities, low stock alerts, or valuable items."

const maxListedProducts = 3

var (
	lowStockKeywords = []string{"low", "alert", "critical"}
	countKeywords    = []string{"total", "count", "how many"}
	valueKeywords    = []string{"expensive", "valuable", "high price"}
)

// KeywordReply answers message from products without any external service. The first matching
// rule wins: low stock, inventory totals, most valuable, product name lookup, then help text.
func KeywordReply(message string, products []model.Product) string {
	query := strings.ToLower(message)

	switch {
	case containsAny(query, lowStockKeywords):
		return lowStockReply(products)
	case containsAny(query, countKeywords):
		return totalsReply(products)
	case containsAny(query, valueKeywords):
		return mostValuableReply(products)
	}

	if p, ok := findByName(query, products); ok {
		return fmt.Sprintf("%s: %d units in stock, $%s each", p.Name, p.Quantity, p.Price.StringFixed(2))
	}

	return helpText
}

func containsAny(s string, words []string) bool {
	return slices.ContainsFunc(words, func(w string) bool {
		return strings.Contains(s, w)
	})
}

func lowStockReply(products []model.Product) string {
	low := model.FilterLowStock(products)
	if len(low) == 0 {
		return "Found 0 products with low stock"
	}

	names := make([]string, 0, maxListedProducts)
	for _, p := range low[:min(len(low), maxListedProducts)] {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("Found %d products with low stock: %s", len(low), strings.Join(names, ", "))
}

func totalsReply(products []model.Product) string {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return fmt.Sprintf("You have %d products in inventory with a total value of $%s", len(products), total.StringFixed(2))
}

func mostValuableReply(products []model.Product) string {
	sorted := slices.Clone(products)
	slices.SortStableFunc(sorted, func(a, b model.Product) int {
		return b.Price.Cmp(a.Price)
	})

	parts := make([]string, 0, maxListedProducts)
	for _, p := range sorted[:min(len(sorted), maxListedProducts)] {
		parts = append(parts, fmt.Sprintf("%s ($%s)", p.Name, p.Price.StringFixed(2)))
	}
	return "Most valuable products: " + strings.Join(parts, ", ")
}

// findByName returns the first product whose name contains any whitespace-separated token of query.
func findByName(query string, products []model.Product) (model.Product, bool) {
	tokens := strings.Fields(query)
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if slices.ContainsFunc(tokens, func(t string) bool { return strings.Contains(name, t) }) {
			return p, true
		}
	}
	return model.Product{}, false
}
