package embedder

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBatchSize = 16

// OpenAIClient implements Client against an OpenAI-compatible embeddings
// endpoint. A custom BaseURL points it at vLLM, LocalAI, or any other server
// speaking the same API.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	batchSize int
}

// NewOpenAIClient creates a new OpenAI-compatible embedding client.
func NewOpenAIClient(config Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     config.Model,
		batchSize: batchSize,
	}
}

// Embed generates embeddings for the given texts, batching requests to stay
// within provider limits.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(c.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("embedding response size mismatch: want %d, got %d", end-start, len(resp.Data))
		}

		for _, item := range resp.Data {
			embeddings = append(embeddings, item.Embedding)
		}
	}

	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// Close implements Client.
func (c *OpenAIClient) Close() error {
	return nil
}
