package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/davidquintana/archivio-backend/pkg/config"
)

// Client wraps the Gemini SDK for the two calls the archive needs: embedding
// document text for semantic search and answering questions over retrieved
// documents.
type Client struct {
	client    *genai.Client
	generator *genai.GenerativeModel
	embedder  *genai.EmbeddingModel
}

// Embedder is the narrow surface the search service depends on.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// Generator produces grounded answers for the ask endpoint.
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// NewClient creates a Gemini client from the configured API key and models.
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Client{
		client:    client,
		generator: client.GenerativeModel(cfg.GenerateModel),
		embedder:  client.EmbeddingModel(cfg.EmbeddingModel),
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EmbedText returns the embedding vector for the given text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is required")
	}

	resp, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding error: %w", err)
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding from gemini")
	}

	vector := make([]float64, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		vector[i] = float64(v)
	}
	return vector, nil
}

// GenerateAnswer sends a prompt to the generation model and returns the
// concatenated text parts of the first candidate.
func (c *Client) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is required")
	}

	resp, err := c.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
