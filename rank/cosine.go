package rank

import "math"

// Cosine returns the cosine similarity of two vectors. Vectors of different
// lengths are incomparable and score 0.0, as does any vector with zero norm —
// zero vectors stand in for failed embeddings, and a missing embedding must
// never poison a score with NaN.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ScoreAspects computes the cosine similarity of a query vector against each
// of a candidate's aspect vectors. The aspect names and vectors are parallel
// slices: vectors[i] embeds aspects[i]. Pairs beyond the shorter slice are
// ignored, and a duplicate aspect name keeps the later score. Nil or
// zero-norm aspect vectors score 0.0.
func ScoreAspects(query []float32, aspects []string, vectors [][]float32) map[string]float64 {
	n := len(aspects)
	if len(vectors) < n {
		n = len(vectors)
	}

	scores := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		scores[aspects[i]] = Cosine(query, vectors[i])
	}
	return scores
}
