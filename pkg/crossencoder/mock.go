package crossencoder

import (
	"context"

	"github.com/uet-datalab/refpipe/pkg/bm25"
)

// MockClient scores pairs by lexical token overlap, mapped to a logit-like
// range. Deterministic, for tests: a passage sharing every query token gets
// a strongly positive score, one sharing nothing gets a strongly negative
// score.
type MockClient struct{}

// NewMockClient creates a mock cross-encoder client.
func NewMockClient(config Config) *MockClient {
	return &MockClient{}
}

// ScorePairs implements Client.
func (m *MockClient) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	queryTokens := bm25.Tokenize(query)
	querySet := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		querySet[tok] = struct{}{}
	}

	scores := make([]float64, len(passages))
	for i, passage := range passages {
		overlap := 0
		for _, tok := range bm25.Tokenize(passage) {
			if _, ok := querySet[tok]; ok {
				overlap++
			}
		}
		ratio := 0.0
		if len(querySet) > 0 {
			ratio = float64(overlap) / float64(len(querySet))
		}
		// Map [0,1] overlap onto a [-4,4] logit range.
		scores[i] = ratio*8 - 4
	}

	return scores, nil
}

// Close implements Client.
func (m *MockClient) Close() error {
	return nil
}
