package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tuanvumaihuynh/stock-assistant/internal/apperr"
	"github.com/tuanvumaihuynh/stock-assistant/internal/chat"
	"github.com/tuanvumaihuynh/stock-assistant/internal/repository"
	"github.com/tuanvumaihuynh/stock-assistant/internal/restock"
)

type AssistantService interface {
	// Chat answers a free-form question about the inventory. Only store failures are returned;
	// AI failures fall back to keyword matching.
	Chat(ctx context.Context, message string) (chat.Reply, error)
	PredictProduct(ctx context.Context, id string) (restock.PredictionResult, error)
	PredictLowStock(ctx context.Context) ([]restock.PredictionResult, error)
	Recommendations(ctx context.Context) (restock.RecommendationBatch, error)
}

type assistantService struct {
	logger      *slog.Logger
	productRepo repository.ProductRepository
	responder   *chat.Responder
	predictor   *restock.Predictor
}

func NewAssistantService(
	logger *slog.Logger,
	productRepo repository.ProductRepository,
	responder *chat.Responder,
	predictor *restock.Predictor,
) AssistantService {
	return &assistantService{
		logger:      logger.With(slog.String("service", "assistant")),
		productRepo: productRepo,
		responder:   responder,
		predictor:   predictor,
	}
}

func (s *assistantService) Chat(ctx context.Context, message string) (chat.Reply, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return chat.Reply{}, apperr.Internal("Chat failed", err)
	}

	reply := s.responder.Respond(ctx, message, products)
	s.logger.DebugContext(ctx, "chat answered",
		slog.String("source", string(reply.Source)),
		slog.Int("products", len(products)))

	return reply, nil
}

func (s *assistantService) PredictProduct(ctx context.Context, id string) (restock.PredictionResult, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return restock.PredictionResult{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return restock.PredictionResult{}, apperr.Internal("Prediction failed", err)
	}

	return s.predictor.PredictResult(product), nil
}

func (s *assistantService) PredictLowStock(ctx context.Context) ([]restock.PredictionResult, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return nil, apperr.Internal("Prediction failed", err)
	}

	return s.predictor.PredictLowStock(products), nil
}

func (s *assistantService) Recommendations(ctx context.Context) (restock.RecommendationBatch, error) {
	products, err := s.productRepo.ListAllProducts(ctx)
	if err != nil {
		return restock.RecommendationBatch{}, apperr.Internal("Recommendations failed", err)
	}

	return restock.RecommendAll(products), nil
}
