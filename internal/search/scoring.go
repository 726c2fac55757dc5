package search

import (
	"math"
	"sort"
)

// cosineSimilarity returns the cosine of the angle between a and b, clamped
// to [0, 1]. Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// scoredDoc accumulates the two ranking signals for one document.
type scoredDoc struct {
	id           string
	keywordScore float64
	vectorScore  float64
}

// mergeScores combines keyword and vector scores into one ranking. Documents
// found by only one signal keep a zero score for the other.
func mergeScores(docs map[string]*scoredDoc, keywordWeight, vectorWeight float64) []rankedDoc {
	ranked := make([]rankedDoc, 0, len(docs))
	for _, doc := range docs {
		ranked = append(ranked, rankedDoc{
			ID:    doc.id,
			Score: keywordWeight*doc.keywordScore + vectorWeight*doc.vectorScore,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

type rankedDoc struct {
	ID    string
	Score float64
}

// reciprocalRank converts a zero-based rank into a score in (0, 1].
func reciprocalRank(rank int) float64 {
	return 1 / float64(rank+1)
}
