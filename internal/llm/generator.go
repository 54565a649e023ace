package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/config"
)

// ErrDisabled is returned when no API key is configured; callers fall back
// to canned text.
var ErrDisabled = errors.New("text generation disabled")

// GenerateOptions tune a single generation call. Zero values fall back to
// the configured defaults.
type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Usage reports token consumption for one generation.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Generation is the produced text plus usage accounting.
type Generation struct {
	Text  string
	Usage Usage
}

// Generator is the text-generation collaborator consumed by handlers. Any
// failure must be handled by the caller with deterministic fallback text;
// generation errors never propagate into routing.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (Generation, error)
}

// AnthropicGenerator implements Generator against the Anthropic Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	cfg    config.LLMConfig
	logger *zap.Logger
}

// NewAnthropicGenerator builds the adapter. With an empty API key every call
// returns ErrDisabled without touching the network.
func NewAnthropicGenerator(cfg config.LLMConfig, logger *zap.Logger) *AnthropicGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
		logger: logger,
	}
}

// Generate sends a single-turn prompt and returns the first text block.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (Generation, error) {
	if g.cfg.APIKey == "" {
		return Generation{}, ErrDisabled
	}

	model := opts.Model
	if model == "" {
		model = g.cfg.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.cfg.MaxTokens
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = g.cfg.Temperature
	}

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		g.logger.Warn("anthropic call failed", zap.Error(err))
		return Generation{}, fmt.Errorf("anthropic: %w", err)
	}

	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return Generation{Text: block.Text, Usage: usage}, nil
		}
	}
	return Generation{Usage: usage}, errors.New("anthropic: no text content in response")
}
