package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/uet-datalab/refpipe/pkg/bm25"
	"github.com/uet-datalab/refpipe/pkg/corpus"
	"github.com/uet-datalab/refpipe/pkg/crossencoder"
)

// defaultMaxCandidates bounds how many chunks the pairwise model sees per
// dialog. Cross-encoders score every (query, passage) pair individually, so
// the lexical prefilter is what keeps large corpora affordable.
const defaultMaxCandidates = 200

// defaultContentLimit truncates reference content in the output. Pairwise
// reranking targets long chunks, so the full text would bloat the dialogs
// file without adding signal.
const defaultContentLimit = 500

// CrossEncoder scores dialogs with a pairwise relevance model over a
// BM25-prefiltered candidate set instead of the whole corpus.
type CrossEncoder struct {
	chunks        []corpus.Chunk
	tokenized     [][]string
	index         *bm25.Index
	client        crossencoder.Client
	maxCandidates int
	logger        *slog.Logger
}

// NewCrossEncoder builds the lexical index over the corpus. maxCandidates
// caps the prefiltered set; zero or negative means the default of 200.
func NewCrossEncoder(client crossencoder.Client, chunks []corpus.Chunk, maxCandidates int, logger *slog.Logger) (*CrossEncoder, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("reference corpus is empty")
	}
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}

	tokenized := make([][]string, len(chunks))
	for i, c := range chunks {
		tokenized[i] = bm25.Tokenize(c.Content)
	}

	return &CrossEncoder{
		chunks:        chunks,
		tokenized:     tokenized,
		index:         bm25.NewIndex(tokenized),
		client:        client,
		maxCandidates: maxCandidates,
		logger:        logger,
	}, nil
}

// Assign returns a copy of the dialog with a "reference" field holding the
// selected chunks. Dialogs missing a question or answer get an empty list.
//
// The lexical score is normalized over the full corpus before the candidate
// restriction, so a chunk's lexical contribution does not depend on which
// other chunks survived the prefilter.
func (c *CrossEncoder) Assign(ctx context.Context, dialog Dialog, opts Options) (Dialog, error) {
	out := dialog.clone()

	question, answer := dialog.QA()
	if question == "" || answer == "" {
		out["reference"] = []Reference{}
		return out, nil
	}

	rawLexical := c.index.Scores(bm25.Tokenize(question + " " + answer))
	lexical := MinMaxNormalize(rawLexical)
	candidateIdx := topByScore(rawLexical, c.maxCandidates)

	passages := make([]string, len(candidateIdx))
	for i, idx := range candidateIdx {
		passages[i] = c.chunks[idx].Content
	}

	answerLogits, err := c.client.ScorePairs(ctx, answer, passages)
	if err != nil {
		return nil, fmt.Errorf("failed to score answer pairs: %w", err)
	}
	questionLogits, err := c.client.ScorePairs(ctx, question, passages)
	if err != nil {
		return nil, fmt.Errorf("failed to score question pairs: %w", err)
	}

	candidates := make([]candidate, len(candidateIdx))
	for i, idx := range candidateIdx {
		answerSim := Sigmoid(answerLogits[i])
		questionSim := Sigmoid(questionLogits[i])
		score := WeightAnswer*answerSim + WeightQuestion*questionSim + WeightLexical*lexical[idx]
		candidates[i] = candidate{chunkIndex: idx, score: score}
	}

	selected := selectTop(candidates, opts)
	out["reference"] = buildReferences(selected, c.chunks, defaultContentLimit)
	return out, nil
}

// topByScore returns the indices of the k highest scores, ties broken by
// lower index. With k at or above len(scores) every index comes back, still
// in descending score order.
func topByScore(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}
