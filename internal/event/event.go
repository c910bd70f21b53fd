package event

import (
	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
	"github.com/tuanvumaihuynh/stock-assistant/internal/restock"
)

const (
	TopicProductChanged = "stock.product.changed"
	TopicLowStock       = "stock.low"
)

type ProductAction string

const (
	ProductCreated ProductAction = "created"
	ProductUpdated ProductAction = "updated"
	ProductDeleted ProductAction = "deleted"
)

type ProductChangedEvent struct {
	Action       ProductAction `json:"action"`
	ProductID    string        `json:"product_id"`
	Name         string        `json:"name"`
	Quantity     int           `json:"quantity"`
	MinThreshold int           `json:"min_threshold"`
}

func NewProductChangedEvent(action ProductAction, p model.Product) ProductChangedEvent {
	return ProductChangedEvent{
		Action:       action,
		ProductID:    p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		MinThreshold: p.MinThreshold,
	}
}

type LowStockEvent struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	MinThreshold int             `json:"min_threshold"`
	Urgency      restock.Urgency `json:"urgency"`
}

func NewLowStockEvent(p model.Product) LowStockEvent {
	return LowStockEvent{
		ProductID:    p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		MinThreshold: p.MinThreshold,
		Urgency:      restock.Classify(p.Quantity, p.MinThreshold),
	}
}
