package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
	"github.com/tuanvumaihuynh/stock-assistant/internal/restock"
)

type productResponse struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"min_threshold"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProductResponse(p model.Product) productResponse {
	return productResponse{
		ProductID:    p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		MinThreshold: p.MinThreshold,
		Price:        p.Price.InexactFloat64(),
		Category:     p.Category,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(products []model.Product) []productResponse {
	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return items
}

type createProductRequest struct {
	Name         string           `json:"name" validate:"required,notblank"`
	Quantity     *int             `json:"quantity" validate:"required,gte=0"`
	MinThreshold *int             `json:"min_threshold" validate:"omitempty,gte=0"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
}

type updateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,notblank"`
	Quantity     *int             `json:"quantity" validate:"omitempty,gte=0"`
	MinThreshold *int             `json:"min_threshold" validate:"omitempty,gte=0"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
}

type listProductsResponse struct {
	Products []productResponse `json:"products"`
	Count    int               `json:"count"`
}

type getProductResponse struct {
	Product productResponse `json:"product"`
}

type productMutationResponse struct {
	Message string          `json:"message"`
	Product productResponse `json:"product"`
}

type alertsResponse struct {
	Alerts  []productResponse `json:"alerts"`
	Count   int               `json:"count"`
	Message string            `json:"message"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

type predictRequest struct {
	ProductID string `json:"product_id"`
}

type predictionResponse struct {
	ProductID                  string    `json:"product_id"`
	ProductName                string    `json:"product_name"`
	CurrentStock               int       `json:"current_stock"`
	PredictedWeeklyDemand      int       `json:"predicted_weekly_demand"`
	PredictedMonthlyDemand     int       `json:"predicted_monthly_demand"`
	EstimatedDaysUntilStockout int       `json:"estimated_days_until_stockout"`
	UrgencyLevel               string    `json:"urgency_level"`
	RecommendedAction          string    `json:"recommended_action"`
	Confidence                 int       `json:"confidence"`
	GeneratedAt                time.Time `json:"generated_at"`
}

type predictionErrorResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id"`
}

// toPredictionItem renders a result as either a prediction or its in-line error.
func toPredictionItem(res restock.PredictionResult) any {
	if res.Err != nil {
		return predictionErrorResponse{
			Error:     res.Err.Error(),
			ProductID: res.Err.ProductID,
		}
	}

	p := res.Prediction
	return predictionResponse{
		ProductID:                  p.ProductID,
		ProductName:                p.ProductName,
		CurrentStock:               p.CurrentStock,
		PredictedWeeklyDemand:      p.PredictedWeeklyDemand,
		PredictedMonthlyDemand:     p.PredictedMonthlyDemand,
		EstimatedDaysUntilStockout: p.EstimatedDaysUntilStockout,
		UrgencyLevel:               p.Urgency.String(),
		RecommendedAction:          p.RecommendedAction,
		Confidence:                 p.Confidence,
		GeneratedAt:                p.GeneratedAt,
	}
}

type predictResponse struct {
	Prediction any    `json:"prediction"`
	ProductID  string `json:"product_id"`
}

type predictBatchResponse struct {
	Predictions []any  `json:"predictions"`
	Message     string `json:"message"`
}

type recommendationResponse struct {
	ProductID        string  `json:"product_id"`
	ProductName      string  `json:"product_name"`
	CurrentQuantity  int     `json:"current_quantity"`
	RecommendedOrder int     `json:"recommended_order"`
	Urgency          string  `json:"urgency"`
	EstimatedCost    float64 `json:"estimated_cost"`
	Reason           string  `json:"reason"`
}

type recommendationsResponse struct {
	Recommendations []recommendationResponse `json:"recommendations"`
	TotalCost       float64                  `json:"total_cost"`
	Message         string                   `json:"message"`
}

func toRecommendationsResponse(batch restock.RecommendationBatch) recommendationsResponse {
	items := make([]recommendationResponse, 0, len(batch.Items))
	for _, rec := range batch.Items {
		items = append(items, recommendationResponse{
			ProductID:        rec.ProductID,
			ProductName:      rec.ProductName,
			CurrentQuantity:  rec.CurrentQuantity,
			RecommendedOrder: rec.RecommendedOrder,
			Urgency:          rec.Urgency.String(),
			EstimatedCost:    rec.EstimatedCost.InexactFloat64(),
			Reason:           rec.Reason,
		})
	}

	return recommendationsResponse{
		Recommendations: items,
		TotalCost:       batch.TotalCost.InexactFloat64(),
	}
}
