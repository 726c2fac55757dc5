package search

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/config"
)

type fakeEmbedder struct {
	vector []float64
}

func (f *fakeEmbedder) EmbedText(context.Context, string) ([]float64, error) {
	return f.vector, nil
}

type fakeGenerator struct {
	answer string
}

func (f *fakeGenerator) GenerateAnswer(context.Context, string) (string, error) {
	return f.answer, nil
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	repo := NewRepository(nil)
	embedder := &fakeEmbedder{}
	generator := &fakeGenerator{}
	cfg := config.SearchConfig{KeywordWeight: 0.4, VectorWeight: 0.6}

	if _, err := NewService(nil, embedder, generator, cfg); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(repo, embedder, generator, cfg); err != nil {
		t.Fatalf("expected service to construct, got %v", err)
	}
	if _, err := NewService(repo, nil, nil, cfg); err != nil {
		t.Fatalf("expected service to construct without ai clients, got %v", err)
	}
}

func TestAskWithoutGeneratorReturnsDependencyError(t *testing.T) {
	svc, err := NewService(NewRepository(nil), nil, nil, config.SearchConfig{})
	if err != nil {
		t.Fatalf("constructing service: %v", err)
	}
	if _, err := svc.Ask(context.Background(), uuid.New(), "where are the invoices"); err == nil {
		t.Fatal("expected dependency error without generator")
	}
}

func TestClampLimit(t *testing.T) {
	if got := clampLimit(0); got != defaultSearchLimit {
		t.Fatalf("zero limit: got %d", got)
	}
	if got := clampLimit(-3); got != defaultSearchLimit {
		t.Fatalf("negative limit: got %d", got)
	}
	if got := clampLimit(maxSearchLimit + 1); got != maxSearchLimit {
		t.Fatalf("over max: got %d", got)
	}
	if got := clampLimit(7); got != 7 {
		t.Fatalf("in range: got %d", got)
	}
}

func TestSnippetTruncates(t *testing.T) {
	short := "just a short text"
	if got := snippet(short); got != short {
		t.Fatalf("short text must pass through: %q", got)
	}
	long := strings.Repeat("a", snippetLength+50)
	got := snippet(long)
	if len(got) <= snippetLength {
		t.Fatal("expected ellipsis appended")
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got[len(got)-3:])
	}
}

func TestBuildPromptIncludesExcerptsAndQuestion(t *testing.T) {
	hits := []SearchHit{
		{Title: "Lease agreement", DocumentType: "contract", Snippet: "the lease runs through 2027"},
		{Title: "Renewal letter", DocumentType: "letter", Snippet: "renewal was confirmed in March"},
	}
	prompt := buildPrompt("When does the lease expire?", hits)

	if !strings.Contains(prompt, "Lease agreement") || !strings.Contains(prompt, "Renewal letter") {
		t.Fatal("prompt must include every hit title")
	}
	if !strings.Contains(prompt, "the lease runs through 2027") {
		t.Fatal("prompt must include the snippets")
	}
	if !strings.Contains(prompt, "Question: When does the lease expire?") {
		t.Fatal("prompt must end with the question")
	}
}
