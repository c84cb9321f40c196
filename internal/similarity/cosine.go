package similarity

import (
	"fmt"
	"math"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
)

// Cosine returns dot(a,b)/(|a||b|), clamped to [-1,1]. Vectors of different
// length or with zero norm fail with *apperr.EmbeddingError.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, apperr.NewEmbedding(fmt.Sprintf("embedding dimensions differ: %d vs %d", len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, apperr.NewEmbedding("embedding vector has zero norm")
	}

	v := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, v)), nil
}
