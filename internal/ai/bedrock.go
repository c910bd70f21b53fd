package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const anthropicVersion = "bedrock-2023-05-31"

var tracer = otel.Tracer("internal/ai")

// ModelInvoker is the subset of the Bedrock runtime client used by BedrockCompleter.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

var _ Completer = (*BedrockCompleter)(nil)

// BedrockCompleter sends prompts to an Anthropic model hosted on Bedrock.
type BedrockCompleter struct {
	client  ModelInvoker
	modelID string
}

func NewBedrockCompleter(client ModelInvoker, modelID string) *BedrockCompleter {
	return &BedrockCompleter{
		client:  client,
		modelID: modelID,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *BedrockCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (_ string, err error) {
	ctx, span := tracer.Start(ctx, "BedrockCompleter.Complete",
		trace.WithAttributes(
			attribute.String("model_id", c.modelID),
			attribute.Int("max_tokens", maxTokens),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "completion failed")
		}
		span.End()
	}()

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}

	var res anthropicResponse
	if err := json.Unmarshal(out.Body, &res); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(res.Content) == 0 || strings.TrimSpace(res.Content[0].Text) == "" {
		return "", ErrEmptyCompletion
	}

	return res.Content[0].Text, nil
}
