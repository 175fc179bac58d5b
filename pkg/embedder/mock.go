package embedder

import (
	"context"
	"hash/fnv"
	"math"
)

// MockClient produces deterministic pseudo-embeddings derived from the text
// alone, for tests and dry runs. Identical texts always map to identical
// unit-length vectors.
type MockClient struct {
	dimensions int
}

// NewMockClient creates a mock embedding client with 8-dimensional vectors.
func NewMockClient(config Config) *MockClient {
	return &MockClient{dimensions: 8}
}

// Embed implements Client.
func (m *MockClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = m.vector(text)
	}
	return embeddings, nil
}

// EmbedSingle implements Client.
func (m *MockClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return m.vector(text), nil
}

// Close implements Client.
func (m *MockClient) Close() error {
	return nil
}

func (m *MockClient) vector(text string) []float32 {
	v := make([]float32, m.dimensions)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	var norm float64
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = float32(int64(seed>>33)%1000) / 1000
		norm += float64(v[i]) * float64(v[i])
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= scale
		}
	}
	return v
}
