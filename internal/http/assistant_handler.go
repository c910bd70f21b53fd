package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/stock-assistant/internal/service"
)

type assistantHandler struct {
	*Service
	assistantSvc service.AssistantService
}

func newAssistantHandler(s *Service, assistantSvc service.AssistantService) *assistantHandler {
	return &assistantHandler{
		Service:      s,
		assistantSvc: assistantSvc,
	}
}

func (h *assistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := h.decodeAndValidate(r, &req, true); err != nil {
		h.writeError(w, r, err)
		return
	}

	reply, err := h.assistantSvc.Chat(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("assistant service chat: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, chatResponse{
		Response:  reply.Text,
		Context:   string(reply.Source),
		Timestamp: reply.Timestamp,
	})
}

// Predict forecasts one product when product_id is given, otherwise the first low-stock
// products.
func (h *assistantHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := h.decodeAndValidate(r, &req, true); err != nil {
		h.writeError(w, r, err)
		return
	}

	productID := strings.TrimSpace(req.ProductID)
	if productID != "" {
		res, err := h.assistantSvc.PredictProduct(r.Context(), productID)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("assistant service predict product: %w", err))
			return
		}

		h.writeJSON(w, r, http.StatusOK, predictResponse{
			Prediction: toPredictionItem(res),
			ProductID:  productID,
		})
		return
	}

	results, err := h.assistantSvc.PredictLowStock(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("assistant service predict low stock: %w", err))
		return
	}

	items := make([]any, 0, len(results))
	for _, res := range results {
		items = append(items, toPredictionItem(res))
	}

	h.writeJSON(w, r, http.StatusOK, predictBatchResponse{
		Predictions: items,
		Message:     fmt.Sprintf("Predictions for %d low-stock products", len(items)),
	})
}

func (h *assistantHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	batch, err := h.assistantSvc.Recommendations(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("assistant service recommendations: %w", err))
		return
	}

	res := toRecommendationsResponse(batch)
	res.Message = fmt.Sprintf("%d products need restocking", len(res.Recommendations))

	h.writeJSON(w, r, http.StatusOK, res)
}
