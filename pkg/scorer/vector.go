package scorer

import "math"

// normalizeL2 normalizes a vector to unit length. Zero vectors are returned
// as-is so downstream dot products degrade to zero similarity.
func normalizeL2(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}

	scale := 1 / math.Sqrt(norm)
	normalized := make([]float32, len(v))
	for i, x := range v {
		normalized[i] = float32(float64(x) * scale)
	}
	return normalized
}

// dot computes the dot product of two vectors. For unit-length vectors this
// is their cosine similarity. Mismatched lengths score zero.
func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var result float64
	for i := range a {
		result += float64(a[i]) * float64(b[i])
	}
	return result
}
