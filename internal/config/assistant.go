package config

import "time"

type Assistant struct {
	AIEnabled bool          `env:"ASSISTANT_AI_ENABLED" envDefault:"true"`
	ModelID   string        `env:"ASSISTANT_MODEL_ID" envDefault:"anthropic.claude-3-sonnet-20240229-v1:0"`
	MaxTokens int           `env:"ASSISTANT_MAX_TOKENS" envDefault:"300"`
	Timeout   time.Duration `env:"ASSISTANT_TIMEOUT" envDefault:"10s"`
}
