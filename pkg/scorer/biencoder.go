package scorer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uet-datalab/refpipe/pkg/bm25"
	"github.com/uet-datalab/refpipe/pkg/corpus"
	"github.com/uet-datalab/refpipe/pkg/embedder"
)

// BiEncoder scores dialogs against the whole corpus with embedding cosine
// similarity. Chunk embeddings are computed once at construction; each
// dialog then costs two query embeddings plus a pass over the corpus.
type BiEncoder struct {
	chunks     []corpus.Chunk
	embeddings [][]float32
	index      *bm25.Index
	client     embedder.Client
	logger     *slog.Logger
}

// NewBiEncoder embeds every chunk and builds the lexical index. Embeddings
// are L2-normalized up front so per-dialog scoring reduces to dot products.
func NewBiEncoder(ctx context.Context, client embedder.Client, chunks []corpus.Chunk, logger *slog.Logger) (*BiEncoder, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("reference corpus is empty")
	}

	contents := make([]string, len(chunks))
	tokenized := make([][]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
		tokenized[i] = bm25.Tokenize(c.Content)
	}

	logger.Info("embedding reference corpus", "chunks", len(chunks))
	embeddings, err := client.Embed(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("failed to embed reference corpus: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks))
	}
	for i, emb := range embeddings {
		embeddings[i] = normalizeL2(emb)
	}

	return &BiEncoder{
		chunks:     chunks,
		embeddings: embeddings,
		index:      bm25.NewIndex(tokenized),
		client:     client,
		logger:     logger,
	}, nil
}

// Assign returns a copy of the dialog with a "reference" field holding the
// selected chunks. Dialogs missing a question or answer get an empty list.
func (b *BiEncoder) Assign(ctx context.Context, dialog Dialog, opts Options) (Dialog, error) {
	out := dialog.clone()

	question, answer := dialog.QA()
	if question == "" || answer == "" {
		out["reference"] = []Reference{}
		return out, nil
	}

	answerEmb, err := b.client.EmbedSingle(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("failed to embed answer: %w", err)
	}
	questionEmb, err := b.client.EmbedSingle(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	answerEmb = normalizeL2(answerEmb)
	questionEmb = normalizeL2(questionEmb)

	answerSim := make([]float64, len(b.chunks))
	questionSim := make([]float64, len(b.chunks))
	for i, chunkEmb := range b.embeddings {
		answerSim[i] = dot(answerEmb, chunkEmb)
		questionSim[i] = dot(questionEmb, chunkEmb)
	}

	lexical := MinMaxNormalize(b.index.Scores(bm25.Tokenize(question + " " + answer)))
	fused := Fuse(answerSim, questionSim, lexical)

	candidates := make([]candidate, len(fused))
	for i, score := range fused {
		candidates[i] = candidate{chunkIndex: i, score: score}
	}

	selected := selectTop(candidates, opts)
	out["reference"] = buildReferences(selected, b.chunks, 0)
	return out, nil
}
