package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tuanvumaihuynh/stock-assistant/internal/ai"
	"github.com/tuanvumaihuynh/stock-assistant/internal/apperr"
	"github.com/tuanvumaihuynh/stock-assistant/internal/config"
	"github.com/tuanvumaihuynh/stock-assistant/internal/model"
)

// Source tells which path produced a reply.
type Source string

const (
	SourceAI      Source = "AI-powered response"
	SourceKeyword Source = "Simple keyword matching"
)

// ErrDelegationDisabled is returned by Delegate when no completer is configured.
var ErrDelegationDisabled = errors.New("ai delegation disabled")

type Reply struct {
	Text      string
	Source    Source
	Timestamp time.Time
}

// Responder answers inventory questions, preferring the AI completer and falling back to
// keyword matching.
type Responder struct {
	completer ai.Completer
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewResponder creates a Responder. A nil completer or cfg.AIEnabled=false disables delegation.
func NewResponder(cfg config.Assistant, logger *slog.Logger, completer ai.Completer) *Responder {
	if !cfg.AIEnabled {
		completer = nil
	}
	return &Responder{
		completer: completer,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Respond never fails: any delegation error degrades to a keyword reply.
func (r *Responder) Respond(ctx context.Context, message string, products []model.Product) Reply {
	text, err := r.Delegate(ctx, message, products)
	if err == nil {
		return Reply{Text: text, Source: SourceAI, Timestamp: r.now()}
	}

	if !errors.Is(err, ErrDelegationDisabled) {
		r.logger.WarnContext(ctx, "ai delegation failed, falling back to keyword matching",
			slog.Any("error", err))
	}

	return Reply{
		Text:      KeywordReply(message, products),
		Source:    SourceKeyword,
		Timestamp: r.now(),
	}
}

// Delegate asks the completer once under the configured timeout. Failures are wrapped in
// apperr.AIUnavailableErr.
func (r *Responder) Delegate(ctx context.Context, message string, products []model.Product) (string, error) {
	if r.completer == nil {
		return "", ErrDelegationDisabled
	}

	prompt, err := buildPrompt(message, products)
	if err != nil {
		return "", apperr.AIUnavailableErr.WrapParent(err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.completer.Complete(ctx, prompt, r.maxTokens)
	if err != nil {
		return "", apperr.AIUnavailableErr.WrapParent(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.AIUnavailableErr.WrapParent(ai.ErrEmptyCompletion)
	}

	return text, nil
}

type snapshotItem struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	MinThreshold int     `json:"min_threshold"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
}

func buildPrompt(message string, products []model.Product) (string, error) {
	snapshot := make([]snapshotItem, 0, len(products))
	for _, p := range products {
		snapshot = append(snapshot, snapshotItem{
			ProductID:    p.ID,
			Name:         p.Name,
			Quantity:     p.Quantity,
			MinThreshold: p.MinThreshold,
			Price:        p.Price.InexactFloat64(),
			Category:     p.Category,
		})
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal inventory snapshot: %w", err)
	}

	return fmt.Sprintf(`You are a helpful stock management assistant. Here's the current inventory data:
%s

User question: %s

Please provide a helpful response about the inventory. Be concise and actionable.
If asked about specific products, provide exact quantities and details.
If asked about recommendations, suggest based on current stock levels.`, data, message), nil
}
