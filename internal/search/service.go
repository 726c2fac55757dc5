package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/ai"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	askSnippetCount    = 5
	snippetLength      = 400
)

// Service exposes document search and question answering. Both operate on
// document metadata and extracted text; neither touches the assignment
// evaluator.
type Service interface {
	Index(ctx context.Context, documentID uuid.UUID) error
	Search(ctx context.Context, customerID uuid.UUID, query string, limit int) ([]SearchHit, error)
	Ask(ctx context.Context, customerID uuid.UUID, question string) (*Answer, error)
}

// SearchHit is one ranked search result.
type SearchHit struct {
	DocumentID   uuid.UUID `json:"document_id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"document_type"`
	Snippet      string    `json:"snippet"`
	Score        float64   `json:"score"`
}

// Answer is the response to an ask query, grounded on the referenced
// documents.
type Answer struct {
	Answer     string      `json:"answer"`
	References []SearchHit `json:"references"`
}

type service struct {
	repo      *Repository
	embedder  ai.Embedder
	generator ai.Generator
	cfg       config.SearchConfig
}

// NewService constructs a search service instance. embedder and generator may
// be nil in deployments without a Gemini key: search degrades to keyword-only
// and ask returns a dependency error.
func NewService(repo *Repository, embedder ai.Embedder, generator ai.Generator, cfg config.SearchConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("search repository required")
	}
	return &service{repo: repo, embedder: embedder, generator: generator, cfg: cfg}, nil
}

// Index computes and stores the embedding for the document's extracted text.
// Documents without text are skipped, not failed: they stay keyword-only.
func (s *service) Index(ctx context.Context, documentID uuid.UUID) error {
	if s.embedder == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "ai client unavailable")
	}
	row, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load document")
	}
	if strings.TrimSpace(row.ContentText) == "" {
		return nil
	}

	vector, err := s.embedder.EmbedText(ctx, row.ContentText)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ai: embed document text")
	}
	if err := s.repo.SaveEmbedding(ctx, documentID, vector); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save embedding")
	}
	return nil
}

// Search runs the hybrid query: keyword candidates from the database, vector
// candidates from cosine similarity over the customer's embeddings, merged
// with the configured weights.
func (s *service) Search(ctx context.Context, customerID uuid.UUID, query string, limit int) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	limit = clampLimit(limit)

	keywordRows, err := s.repo.KeywordCandidates(ctx, customerID, query, s.maxCandidates())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: keyword candidates")
	}

	var embeddedRows []models.Document
	var queryVector []float64
	if s.embedder != nil {
		embeddedRows, err = s.repo.EmbeddedCandidates(ctx, customerID, s.maxCandidates())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: embedded candidates")
		}
		if len(embeddedRows) > 0 {
			queryVector, err = s.embedder.EmbedText(ctx, query)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ai: embed query")
			}
		}
	}

	byID := make(map[string]*models.Document, len(keywordRows)+len(embeddedRows))
	scores := make(map[string]*scoredDoc, len(keywordRows)+len(embeddedRows))

	for i := range keywordRows {
		row := &keywordRows[i]
		id := row.ID.String()
		byID[id] = row
		scores[id] = &scoredDoc{id: id, keywordScore: reciprocalRank(i)}
	}
	for i := range embeddedRows {
		row := &embeddedRows[i]
		id := row.ID.String()
		similarity := cosineSimilarity(queryVector, row.Embedding)
		if similarity == 0 {
			continue
		}
		if _, ok := byID[id]; !ok {
			byID[id] = row
			scores[id] = &scoredDoc{id: id}
		}
		scores[id].vectorScore = similarity
	}

	ranked := mergeScores(scores, s.cfg.KeywordWeight, s.cfg.VectorWeight)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	hits := make([]SearchHit, 0, len(ranked))
	for _, entry := range ranked {
		row := byID[entry.ID]
		hits = append(hits, SearchHit{
			DocumentID:   row.ID,
			Title:        row.Title,
			DocumentType: row.DocumentType,
			Snippet:      snippet(row.ContentText),
			Score:        entry.Score,
		})
	}
	return hits, nil
}

// Ask answers a question over the customer's documents: retrieve the top
// hits, hand their snippets to the generative model, return the answer with
// the references it was grounded on.
func (s *service) Ask(ctx context.Context, customerID uuid.UUID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}
	if s.generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ai client unavailable")
	}

	hits, err := s.Search(ctx, customerID, question, askSnippetCount)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return &Answer{Answer: "No matching documents were found for this question.", References: []SearchHit{}}, nil
	}

	answer, err := s.generator.GenerateAnswer(ctx, buildPrompt(question, hits))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ai: generate answer")
	}
	return &Answer{Answer: answer, References: hits}, nil
}

func (s *service) maxCandidates() int {
	if s.cfg.MaxCandidates > 0 {
		return s.cfg.MaxCandidates
	}
	return 200
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= snippetLength {
		return text
	}
	return text[:snippetLength] + "…"
}

func buildPrompt(question string, hits []SearchHit) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the document excerpts below. ")
	b.WriteString("If the excerpts do not contain the answer, say so.\n\n")
	for i, hit := range hits {
		fmt.Fprintf(&b, "Document %d (%s): %s\n%s\n\n", i+1, hit.DocumentType, hit.Title, hit.Snippet)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
