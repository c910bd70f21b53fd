package restock

import (
	"errors"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

// MaxBatchPredictions caps how many low-stock products a batch prediction covers.
const MaxBatchPredictions = 5

// Prediction is a simulated demand forecast for one product. It is recomputed per request.
type Prediction struct {
	ProductID                  string
	ProductName                string
	CurrentStock               int
	PredictedWeeklyDemand      int
	PredictedMonthlyDemand     int
	EstimatedDaysUntilStockout int
	Urgency                    Urgency
	RecommendedAction          string
	// Confidence is a cosmetic value in [75, 95], not a statistical measure.
	Confidence  int
	GeneratedAt time.Time
}

// PredictionError reports a record that could not be forecast.
type PredictionError struct {
	ProductID string
	Err       error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("Prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// PredictionResult holds either a prediction or the error for one product of a batch.
type PredictionResult struct {
	Prediction *Prediction
	Err        *PredictionError
}

type Predictor struct {
	rand Rand
	now  func() time.Time
}

type PredictorOption func(*Predictor)

// WithRand replaces the randomness source.
func WithRand(r Rand) PredictorOption {
	return func(p *Predictor) { p.rand = r }
}

// WithClock replaces the clock used for GeneratedAt.
func WithClock(now func() time.Time) PredictorOption {
	return func(p *Predictor) { p.now = now }
}

func NewPredictor(opts ...PredictorOption) *Predictor {
	p := &Predictor{
		rand: globalRand{},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict forecasts demand for a single product. Incomplete records and records with
// negative stock figures yield a *PredictionError.
func (p *Predictor) Predict(product model.Product) (Prediction, error) {
	if product.Invalid != nil {
		return Prediction{}, &PredictionError{ProductID: product.ID, Err: product.Invalid}
	}
	if product.Quantity < 0 || product.MinThreshold < 0 {
		return Prediction{}, &PredictionError{
			ProductID: product.ID,
			Err: fmt.Errorf("invalid stock record: quantity %d, min_threshold %d",
				product.Quantity, product.MinThreshold),
		}
	}

	urgency := Classify(product.Quantity, product.MinThreshold)

	var days int
	switch urgency {
	case UrgencyCritical:
		days = 0
	case UrgencyHigh:
		days = intBetween(p.rand, 3, 7)
	default:
		days = intBetween(p.rand, 7, 21)
	}

	weekly := intBetween(p.rand, 1, max(1, product.Quantity/2))

	return Prediction{
		ProductID:                  product.ID,
		ProductName:                product.Name,
		CurrentStock:               product.Quantity,
		PredictedWeeklyDemand:      weekly,
		PredictedMonthlyDemand:     weekly * 4,
		EstimatedDaysUntilStockout: days,
		Urgency:                    urgency,
		RecommendedAction:          urgency.RecommendedAction(),
		Confidence:                 intBetween(p.rand, 75, 95),
		GeneratedAt:                p.now(),
	}, nil
}

// PredictLowStock forecasts the first MaxBatchPredictions low-stock products in the given
// order. Incomplete records cannot be classified, so they take a slot and are reported there
// as failures without stopping the batch.
func (p *Predictor) PredictLowStock(products []model.Product) []PredictionResult {
	low := make([]model.Product, 0, len(products))
	for _, product := range products {
		if product.Invalid != nil || product.IsLowStock() {
			low = append(low, product)
		}
	}
	if len(low) > MaxBatchPredictions {
		low = low[:MaxBatchPredictions]
	}

	results := make([]PredictionResult, 0, len(low))
	for _, product := range low {
		results = append(results, p.PredictResult(product))
	}

	return results
}

// PredictResult is Predict with the error folded into the result.
func (p *Predictor) PredictResult(product model.Product) PredictionResult {
	prediction, err := p.Predict(product)
	if err != nil {
		predErr := &PredictionError{ProductID: product.ID, Err: err}
		errors.As(err, &predErr)
		return PredictionResult{Err: predErr}
	}
	return PredictionResult{Prediction: &prediction}
}
