package search

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors: got %v", got)
	}
	if got := cosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors: got %v", got)
	}
	if got := cosineSimilarity([]float64{1, 0}, []float64{-1, 0}); got != 0 {
		t.Fatalf("opposite vectors clamp to zero: got %v", got)
	}
	if got := cosineSimilarity(nil, []float64{1}); got != 0 {
		t.Fatalf("empty vector: got %v", got)
	}
	if got := cosineSimilarity([]float64{1, 2}, []float64{1}); got != 0 {
		t.Fatalf("mismatched lengths: got %v", got)
	}
	if got := cosineSimilarity([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Fatalf("zero vector: got %v", got)
	}
}

func TestMergeScoresWeighting(t *testing.T) {
	docs := map[string]*scoredDoc{
		"kw-only":  {id: "kw-only", keywordScore: 1},
		"vec-only": {id: "vec-only", vectorScore: 1},
		"both":     {id: "both", keywordScore: 0.5, vectorScore: 0.5},
	}

	ranked := mergeScores(docs, 0.4, 0.6)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked docs, got %d", len(ranked))
	}
	// vec-only: 0.6, both: 0.5, kw-only: 0.4
	if ranked[0].ID != "vec-only" || ranked[1].ID != "both" || ranked[2].ID != "kw-only" {
		t.Fatalf("unexpected order: %v %v %v", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	if math.Abs(ranked[0].Score-0.6) > 1e-9 {
		t.Fatalf("vector weight not applied: %v", ranked[0].Score)
	}
}

func TestMergeScoresTieBreaksOnID(t *testing.T) {
	docs := map[string]*scoredDoc{
		"b": {id: "b", keywordScore: 1},
		"a": {id: "a", keywordScore: 1},
	}
	ranked := mergeScores(docs, 0.4, 0.6)
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Fatal("equal scores must rank by id for a stable order")
	}
}

func TestReciprocalRank(t *testing.T) {
	if got := reciprocalRank(0); got != 1 {
		t.Fatalf("rank 0: got %v", got)
	}
	if got := reciprocalRank(3); got != 0.25 {
		t.Fatalf("rank 3: got %v", got)
	}
}
