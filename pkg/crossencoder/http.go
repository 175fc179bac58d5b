package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultPairBatchSize = 32

// HTTPClient implements Client against a TEI/Jina-compatible rerank
// endpoint. Both response shapes are accepted: the bare array returned by
// text-embeddings-inference and the {"results": [...]} envelope returned by
// Jina-style servers. Entries carry an index, so scores are re-aligned to
// the input passage order regardless of how the server sorts them.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	batchSize  int
	rawScores  bool
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores,omitempty"`
}

type rerankEntry struct {
	Index          int      `json:"index"`
	Score          *float64 `json:"score"`
	RelevanceScore *float64 `json:"relevance_score"`
}

func (e rerankEntry) value() (float64, bool) {
	if e.Score != nil {
		return *e.Score, true
	}
	if e.RelevanceScore != nil {
		return *e.RelevanceScore, true
	}
	return 0, false
}

// NewHTTPClient creates a rerank client for the given endpoint.
func NewHTTPClient(config Config) *HTTPClient {
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultPairBatchSize
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    config.BaseURL,
		model:      config.Model,
		batchSize:  batchSize,
		rawScores:  config.RawScores,
	}
}

// ScorePairs implements Client.
func (c *HTTPClient) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return []float64{}, nil
	}

	scores := make([]float64, 0, len(passages))
	for start := 0; start < len(passages); start += c.batchSize {
		end := start + c.batchSize
		if end > len(passages) {
			end = len(passages)
		}

		batchScores, err := c.rerank(ctx, query, passages[start:end])
		if err != nil {
			return nil, err
		}
		scores = append(scores, batchScores...)
	}

	return scores, nil
}

func (c *HTTPClient) rerank(ctx context.Context, query string, texts []string) ([]float64, error) {
	body, err := json.Marshal(rerankRequest{
		Model:     c.model,
		Query:     query,
		Texts:     texts,
		RawScores: c.rawScores,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rerank response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank request failed with status %d: %s", resp.StatusCode, string(data))
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(texts))
	seen := make([]bool, len(texts))
	for _, entry := range entries {
		if entry.Index < 0 || entry.Index >= len(texts) {
			return nil, fmt.Errorf("rerank response index %d out of range", entry.Index)
		}
		value, ok := entry.value()
		if !ok {
			return nil, fmt.Errorf("rerank response entry %d carries no score", entry.Index)
		}
		scores[entry.Index] = value
		seen[entry.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("rerank response missing score for passage %d", i)
		}
	}

	return scores, nil
}

func decodeEntries(data []byte) ([]rerankEntry, error) {
	var entries []rerankEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var envelope struct {
		Results []rerankEntry `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Results == nil {
		return nil, fmt.Errorf("unrecognized rerank response shape")
	}
	return envelope.Results, nil
}

// Close implements Client.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
