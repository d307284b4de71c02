package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kaiyu-cloud/tripdex/internal/domain"
	"github.com/kaiyu-cloud/tripdex/internal/metrics"
)

const generatorSystemPrompt = "You are an assistant that helps to make a time schedule for a trip."

// Generator produces structured itineraries from an assembled prompt via an
// OpenAI-compatible chat completion API.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// GeneratorConfig holds the generator settings.
type GeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewGenerator creates the chat-backed itinerary generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Generate sends the prompt and returns the parsed JSON itinerary. Model
// replies arrive fenced or prefixed often enough that the reply is scrubbed
// before parsing; a reply that still fails to parse is rejected.
func (g *Generator) Generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneratorError, err)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrGeneratorError)
	}

	cleaned := ScrubReply(resp.Choices[0].Message.Content)

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "bad_json").Inc()
		g.logger.Warn("generator reply failed to parse", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneratorBadJSON, err)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
	return parsed, nil
}

// ScrubReply strips markdown code fences and a leading "json" language tag
// from a model reply.
func ScrubReply(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "json") {
		s = strings.TrimSpace(s[4:])
	}
	return s
}
