package crossencoder

import (
	"context"
	"fmt"
)

// Client scores (query, passage) pairs with a pairwise relevance model.
//
// ScorePairs returns one raw relevance logit per passage, aligned with the
// input order. Mapping logits into [0,1] (sigmoid) is the caller's business:
// keeping raw scores here lets the fusion layer control normalization.
// Implementations never retry a failed call.
type Client interface {
	ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error)

	// Close cleans up any resources.
	Close() error
}

// Provider identifies a cross-encoder backend.
type Provider string

const (
	// ProviderHTTP uses a TEI/Jina-compatible rerank HTTP API
	// (text-embeddings-inference, vLLM, Jina AI, and others).
	ProviderHTTP Provider = "http"

	// ProviderMock uses a deterministic lexical-overlap scorer for testing.
	ProviderMock Provider = "mock"
)

// Config holds configuration shared by all cross-encoder providers.
type Config struct {
	Provider  Provider `json:"provider"`
	Model     string   `json:"model"`
	BaseURL   string   `json:"base_url"`
	BatchSize int      `json:"batch_size"`

	// RawScores asks the backend for raw logits rather than pre-normalized
	// relevance scores. Supported by TEI-style servers.
	RawScores bool `json:"raw_scores"`
}

// NewClient creates a cross-encoder client for the configured provider.
func NewClient(config Config) (Client, error) {
	switch config.Provider {
	case ProviderHTTP:
		return NewHTTPClient(config), nil
	case ProviderMock:
		return NewMockClient(config), nil
	default:
		return nil, fmt.Errorf("unsupported cross-encoder provider: %s", config.Provider)
	}
}
