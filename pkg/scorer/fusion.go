package scorer

import "math"

// Fusion weights. They sum to 1.0 so the fused score stays in [0,1] when
// every input signal does. The answer dominates: the chunk must support
// what was said, not just what was asked.
const (
	WeightAnswer   = 0.6
	WeightQuestion = 0.2
	WeightLexical  = 0.2
)

// MinMaxNormalize rescales scores into [0,1]. The degenerate case of all
// scores equal maps to all zeros rather than dividing by zero. Needed
// because raw BM25 is unbounded while the similarity signals are not.
func MinMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}

	minVal, maxVal := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minVal {
			minVal = s
		}
		if s > maxVal {
			maxVal = s
		}
	}

	normalized := make([]float64, len(scores))
	if maxVal == minVal {
		return normalized
	}
	for i, s := range scores {
		normalized[i] = (s - minVal) / (maxVal - minVal)
	}
	return normalized
}

// Sigmoid maps a raw relevance logit into (0,1).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Fuse combines the three per-chunk signals under the fixed weights. All
// slices must have equal length; lexical scores are expected to be
// normalized already.
func Fuse(answerSim, questionSim, lexical []float64) []float64 {
	fused := make([]float64, len(answerSim))
	for i := range fused {
		fused[i] = WeightAnswer*answerSim[i] + WeightQuestion*questionSim[i] + WeightLexical*lexical[i]
	}
	return fused
}
