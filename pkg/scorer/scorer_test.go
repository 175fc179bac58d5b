package scorer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uet-datalab/refpipe/pkg/corpus"
	"github.com/uet-datalab/refpipe/pkg/crossencoder"
	"github.com/uet-datalab/refpipe/pkg/embedder"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialogWith(question, answer string) Dialog {
	messages := []any{}
	if question != "" {
		messages = append(messages, map[string]any{"role": "user", "content": question})
	}
	if answer != "" {
		messages = append(messages, map[string]any{"role": "assistant", "content": answer})
	}
	return Dialog{"dialog_id": "d1", "messages": messages}
}

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{
			name:     "spread values",
			input:    []float64{2, 6, 4},
			expected: []float64{0, 1, 0.5},
		},
		{
			name:     "all equal maps to zeros",
			input:    []float64{3, 3, 3},
			expected: []float64{0, 0, 0},
		},
		{
			name:     "empty",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinMaxNormalize(tt.input)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-9)
			}
		})
	}
}

func TestFuseWeights(t *testing.T) {
	fused := Fuse([]float64{1, 0}, []float64{0, 1}, []float64{0, 1})
	assert.InDelta(t, 0.6, fused[0], 1e-9)
	assert.InDelta(t, 0.4, fused[1], 1e-9)

	// With every signal in [0,1] the fused score stays in [0,1].
	fused = Fuse([]float64{1, 0.5}, []float64{1, 0.5}, []float64{1, 0.5})
	for _, s := range fused {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestSelectTop(t *testing.T) {
	candidates := []candidate{
		{chunkIndex: 0, score: 0.4},
		{chunkIndex: 1, score: 0.9},
		{chunkIndex: 2, score: 0.55},
		{chunkIndex: 3, score: 0.6},
	}

	selected := selectTop(candidates, Options{Threshold: 0.5, TopK: 3})
	require.Len(t, selected, 3)
	assert.Equal(t, 1, selected[0].chunkIndex)
	assert.Equal(t, 3, selected[1].chunkIndex)
	assert.Equal(t, 2, selected[2].chunkIndex)

	// TopK caps before the threshold would.
	selected = selectTop(candidates, Options{Threshold: 0.5, TopK: 2})
	require.Len(t, selected, 2)
	assert.Equal(t, 1, selected[0].chunkIndex)
	assert.Equal(t, 3, selected[1].chunkIndex)

	// Nothing reaches the threshold.
	selected = selectTop(candidates, Options{Threshold: 0.95, TopK: 3})
	assert.Empty(t, selected)
}

func TestSelectTopTieBreak(t *testing.T) {
	candidates := []candidate{
		{chunkIndex: 2, score: 0.7},
		{chunkIndex: 0, score: 0.7},
		{chunkIndex: 1, score: 0.7},
	}

	selected := selectTop(candidates, Options{Threshold: 0, TopK: 2})
	require.Len(t, selected, 2)
	assert.Equal(t, 0, selected[0].chunkIndex)
	assert.Equal(t, 1, selected[1].chunkIndex)
}

func TestBuildReferencesTruncation(t *testing.T) {
	long := strings.Repeat("ă", 600)
	chunks := []corpus.Chunk{{Source: "doc.json", ChunkID: "c1", Content: long}}

	refs := buildReferences([]candidate{{chunkIndex: 0, score: 0.87654}}, chunks, 500)
	require.Len(t, refs, 1)
	assert.Equal(t, strings.Repeat("ă", 500)+"...", refs[0].Content)
	assert.Equal(t, 0.8765, refs[0].Score)

	// No limit keeps the full content.
	refs = buildReferences([]candidate{{chunkIndex: 0, score: 0.5}}, chunks, 0)
	assert.Equal(t, long, refs[0].Content)
}

func TestDialogQA(t *testing.T) {
	d := Dialog{"messages": []any{
		map[string]any{"role": "user", "content": "first question"},
		map[string]any{"role": "assistant", "content": "first answer"},
		map[string]any{"role": "user", "content": "second question"},
		map[string]any{"role": "assistant", "content": "second answer"},
	}}

	question, answer := d.QA()
	assert.Equal(t, "second question", question)
	assert.Equal(t, "second answer", answer)

	question, answer = Dialog{}.QA()
	assert.Empty(t, question)
	assert.Empty(t, answer)
}

func testChunks() []corpus.Chunk {
	return []corpus.Chunk{
		{Source: "a.json", ChunkID: "1", Content: "hợp đồng lao động phải được giao kết bằng văn bản"},
		{Source: "a.json", ChunkID: "2", Content: "thời giờ làm việc bình thường không quá tám giờ một ngày"},
		{Source: "b.json", ChunkID: "1", Content: "người sử dụng lao động trả lương đúng hạn cho người lao động"},
	}
}

func TestBiEncoderAssign(t *testing.T) {
	ctx := context.Background()
	client := embedder.NewMockClient(embedder.Config{})

	be, err := NewBiEncoder(ctx, client, testChunks(), testLogger())
	require.NoError(t, err)

	dialog := dialogWith("thời giờ làm việc là bao nhiêu", "thời giờ làm việc bình thường không quá tám giờ")
	out, err := be.Assign(ctx, dialog, Options{Threshold: 0, TopK: 2})
	require.NoError(t, err)

	refs, ok := out["reference"].([]Reference)
	require.True(t, ok)
	require.NotEmpty(t, refs)
	assert.LessOrEqual(t, len(refs), 2)

	// Input fields survive, input dialog is untouched.
	assert.Equal(t, "d1", out["dialog_id"])
	_, hadRefs := dialog["reference"]
	assert.False(t, hadRefs)

	// Deterministic: a second run produces identical references.
	again, err := be.Assign(ctx, dialog, Options{Threshold: 0, TopK: 2})
	require.NoError(t, err)
	assert.Equal(t, refs, again["reference"])
}

func TestBiEncoderAssignMissingMessages(t *testing.T) {
	ctx := context.Background()
	client := embedder.NewMockClient(embedder.Config{})

	be, err := NewBiEncoder(ctx, client, testChunks(), testLogger())
	require.NoError(t, err)

	for _, dialog := range []Dialog{
		dialogWith("", "an answer without a question"),
		dialogWith("a question without an answer", ""),
		{"dialog_id": "d1"},
	} {
		out, err := be.Assign(ctx, dialog, Options{Threshold: 0, TopK: 3})
		require.NoError(t, err)
		assert.Equal(t, []Reference{}, out["reference"])
	}
}

func TestNewBiEncoderEmptyCorpus(t *testing.T) {
	client := embedder.NewMockClient(embedder.Config{})
	_, err := NewBiEncoder(context.Background(), client, nil, testLogger())
	assert.Error(t, err)
}

// countingRerank wraps the mock cross-encoder and records the largest
// passage batch it was asked to score.
type countingRerank struct {
	inner       crossencoder.Client
	maxPassages int
}

func (c *countingRerank) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) > c.maxPassages {
		c.maxPassages = len(passages)
	}
	return c.inner.ScorePairs(ctx, query, passages)
}

func (c *countingRerank) Close() error { return c.inner.Close() }

func TestCrossEncoderAssign(t *testing.T) {
	ctx := context.Background()
	client := crossencoder.NewMockClient(crossencoder.Config{})

	ce, err := NewCrossEncoder(client, testChunks(), 0, testLogger())
	require.NoError(t, err)

	dialog := dialogWith("khi nào phải trả lương", "người sử dụng lao động trả lương đúng hạn")
	out, err := ce.Assign(ctx, dialog, Options{Threshold: 0, TopK: 1})
	require.NoError(t, err)

	refs, ok := out["reference"].([]Reference)
	require.True(t, ok)
	require.Len(t, refs, 1)
	assert.Equal(t, "b.json", refs[0].Source)
	assert.Equal(t, "1", refs[0].ChunkID)
}

func TestCrossEncoderCandidateCap(t *testing.T) {
	ctx := context.Background()
	chunks := make([]corpus.Chunk, 250)
	for i := range chunks {
		chunks[i] = corpus.Chunk{Source: "big.json", ChunkID: "c", Content: "lao động điều khoản chung"}
	}

	counter := &countingRerank{inner: crossencoder.NewMockClient(crossencoder.Config{})}
	ce, err := NewCrossEncoder(counter, chunks, 200, testLogger())
	require.NoError(t, err)

	dialog := dialogWith("điều khoản", "điều khoản chung về lao động")
	_, err = ce.Assign(ctx, dialog, Options{Threshold: 0, TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, 200, counter.maxPassages)
}

// constEmbed returns the same unit vector for every text, so only the
// lexical signal can separate chunks in the bi-encoder path.
type constEmbed struct{}

func (constEmbed) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (constEmbed) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (constEmbed) Close() error { return nil }

// constLogit returns the same logit for every passage, so only the lexical
// signal can separate candidates in the cross-encoder path.
type constLogit struct{}

func (constLogit) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	return make([]float64, len(passages)), nil
}

func (constLogit) Close() error { return nil }

// The lexical query combines question and answer. A chunk sharing terms
// with only the question must still outrank an unrelated chunk when the
// model scores are flat.
func lexicalOnlyChunks() []corpus.Chunk {
	return []corpus.Chunk{
		{Source: "a.json", ChunkID: "1", Content: "thư viện mở cửa buổi sáng"},
		{Source: "a.json", ChunkID: "2", Content: "học phí một năm của trường"},
		{Source: "a.json", ChunkID: "3", Content: "nội quy ký túc xá sinh viên"},
	}
}

func lexicalOnlyDialog() Dialog {
	return dialogWith("học phí một năm là bao nhiêu", "khoảng hai mươi triệu")
}

func TestBiEncoderLexicalUsesQuestion(t *testing.T) {
	ctx := context.Background()
	be, err := NewBiEncoder(ctx, constEmbed{}, lexicalOnlyChunks(), testLogger())
	require.NoError(t, err)

	out, err := be.Assign(ctx, lexicalOnlyDialog(), Options{Threshold: 0, TopK: 1})
	require.NoError(t, err)

	refs, ok := out["reference"].([]Reference)
	require.True(t, ok)
	require.Len(t, refs, 1)
	assert.Equal(t, "2", refs[0].ChunkID)
}

func TestCrossEncoderLexicalUsesQuestion(t *testing.T) {
	ce, err := NewCrossEncoder(constLogit{}, lexicalOnlyChunks(), 0, testLogger())
	require.NoError(t, err)

	out, err := ce.Assign(context.Background(), lexicalOnlyDialog(), Options{Threshold: 0, TopK: 1})
	require.NoError(t, err)

	refs, ok := out["reference"].([]Reference)
	require.True(t, ok)
	require.Len(t, refs, 1)
	assert.Equal(t, "2", refs[0].ChunkID)
}

func TestCrossEncoderAssignMissingMessages(t *testing.T) {
	client := crossencoder.NewMockClient(crossencoder.Config{})
	ce, err := NewCrossEncoder(client, testChunks(), 0, testLogger())
	require.NoError(t, err)

	out, err := ce.Assign(context.Background(), dialogWith("only a question", ""), Options{Threshold: 0, TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, []Reference{}, out["reference"])
}

func TestTopByScore(t *testing.T) {
	scores := []float64{0.2, 0.9, 0.9, 0.1}

	idx := topByScore(scores, 3)
	assert.Equal(t, []int{1, 2, 0}, idx)

	// k beyond length returns everything.
	idx = topByScore(scores, 10)
	assert.Equal(t, []int{1, 2, 0, 3}, idx)
}
