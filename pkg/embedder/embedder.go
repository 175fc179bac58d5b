package embedder

import (
	"context"
	"fmt"
)

// Client generates dense vector representations of text. Implementations
// are treated as opaque scoring oracles: a failed call is returned to the
// caller as-is, never retried here.
type Client interface {
	// Embed generates one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Close cleans up any resources.
	Close() error
}

// Provider identifies an embedding backend.
type Provider string

const (
	// ProviderOpenAI uses an OpenAI-compatible embeddings API.
	ProviderOpenAI Provider = "openai"

	// ProviderEmbedEverything runs a local model via go-embedeverything.
	ProviderEmbedEverything Provider = "embedeverything"

	// ProviderMock returns deterministic vectors for testing.
	ProviderMock Provider = "mock"
)

// Config holds configuration shared by all embedding providers.
type Config struct {
	Provider  Provider `json:"provider"`
	Model     string   `json:"model"`
	APIKey    string   `json:"api_key"`
	BaseURL   string   `json:"base_url"`
	BatchSize int      `json:"batch_size"`
}

// NewClient creates an embedding client for the configured provider.
func NewClient(config Config) (Client, error) {
	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config), nil
	case ProviderEmbedEverything:
		return NewEmbedEverythingClient(config)
	case ProviderMock:
		return NewMockClient(config), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", config.Provider)
	}
}
