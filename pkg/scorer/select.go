package scorer

import (
	"math"
	"sort"

	"github.com/uet-datalab/refpipe/pkg/corpus"
)

// Reference is one chunk selected as supporting evidence for a dialog.
type Reference struct {
	Source  string  `json:"source"`
	ChunkID string  `json:"chunk_id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Options controls reference selection.
type Options struct {
	// Threshold is the minimum fused score a reference must reach.
	Threshold float64

	// TopK caps the number of references per dialog.
	TopK int
}

// candidate pairs a fused score with the chunk's position in the corpus.
type candidate struct {
	chunkIndex int
	score      float64
}

// selectTop ranks candidates by fused score and keeps at most opts.TopK
// entries scoring at least opts.Threshold. Ties break by original corpus
// order, lowest index first, so runs are reproducible regardless of the
// sort algorithm underneath.
func selectTop(candidates []candidate, opts Options) []candidate {
	sorted := make([]candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		return sorted[i].chunkIndex < sorted[j].chunkIndex
	})

	var selected []candidate
	for _, cand := range sorted {
		if len(selected) >= opts.TopK {
			break
		}
		if cand.score < opts.Threshold {
			// Sorted descending: nothing after this qualifies either.
			break
		}
		selected = append(selected, cand)
	}
	return selected
}

// buildReferences renders selected candidates against the chunk corpus.
// contentLimit > 0 truncates reference content to that many runes with an
// ellipsis marker.
func buildReferences(selected []candidate, chunks []corpus.Chunk, contentLimit int) []Reference {
	references := make([]Reference, 0, len(selected))
	for _, cand := range selected {
		chunk := chunks[cand.chunkIndex]
		content := chunk.Content
		if contentLimit > 0 {
			if runes := []rune(content); len(runes) > contentLimit {
				content = string(runes[:contentLimit]) + "..."
			}
		}
		references = append(references, Reference{
			Source:  chunk.Source,
			ChunkID: chunk.ChunkID,
			Content: content,
			Score:   roundScore(cand.score),
		})
	}
	return references
}

// roundScore rounds to 4 decimal places for the output JSON.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
