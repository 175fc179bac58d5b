package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Generation defaults. The rewrite prompt wants some creativity in the
// phrasing but a bounded output, hence the moderate temperature and the
// generous token cap (one conversation can expand into many pairs).
const (
	DefaultModel       = "gemini-2.5-flash-lite"
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
	DefaultMaxTokens   = 8192
	DefaultMaxRetries  = 10
	DefaultRetryDelay  = 3 * time.Second

	// rateLimitWait is the fixed wait after a quota error on the first
	// few attempts; provider quotas refill on a per-minute window.
	rateLimitWait = 60 * time.Second
)

// Generator produces a raw model response for one conversation.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Close() error
}

// GeneratorConfig configures the OpenAI-compatible generator.
type GeneratorConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration
}

// OpenAIGenerator calls an OpenAI-compatible chat endpoint with structured
// JSON output and retries. Rate-limit errors wait a full quota window on
// the first attempts; other errors back off exponentially.
type OpenAIGenerator struct {
	client     *openai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewOpenAIGenerator creates a generator. Zero config fields take the
// package defaults.
func NewOpenAIGenerator(config GeneratorConfig, logger *slog.Logger) (*OpenAIGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for the rewrite generator")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := config.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	return &OpenAIGenerator{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		MaxTokens:   DefaultMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "qa_pairs",
				Schema: ResponseSchema(),
			},
		},
	}

	var lastErr error
	delay := g.retryDelay

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("no choices returned from model")
			}
			return resp.Choices[0].Message.Content, nil
		}
		lastErr = err

		if isRateLimitError(err) {
			wait := rateLimitWait
			if attempt >= 3 {
				wait = delay * 2
			}
			g.logger.Warn("rate limited, backing off",
				"attempt", attempt+1, "max_retries", g.maxRetries, "wait", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return "", err
			}
			delay = wait
			continue
		}

		if attempt < g.maxRetries-1 {
			g.logger.Warn("generation failed, retrying",
				"attempt", attempt+1, "max_retries", g.maxRetries, "wait", delay, "error", err)
			if err := sleepCtx(ctx, delay); err != nil {
				return "", err
			}
			delay = delay * 3 / 2
		}
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", g.maxRetries, lastErr)
}

// Close implements Generator.
func (g *OpenAIGenerator) Close() error {
	return nil
}

// isRateLimitError recognizes quota exhaustion across providers by the
// status code and the phrases their APIs use.
func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
