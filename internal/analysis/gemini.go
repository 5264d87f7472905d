package analysis

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"rankcheck/internal/models"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini API with Google Search grounding.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt as a single user turn. No response schema is set:
// Gemini does not allow a schema together with the search tool.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*Generation, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	})
	if err != nil {
		perr := &ProviderError{Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			perr.StatusCode = apiErr.Code
		}
		return nil, perr
	}

	return &Generation{
		Text:            resp.Text(),
		GroundingChunks: groundingChunks(resp),
	}, nil
}

// groundingChunks copies web citations from the first candidate.
// Missing metadata and chunks without a URI are skipped.
func groundingChunks(resp *genai.GenerateContentResponse) []models.GroundingChunk {
	chunks := []models.GroundingChunk{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return chunks
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return chunks
	}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		chunks = append(chunks, models.GroundingChunk{
			Web: models.GroundingWeb{URI: chunk.Web.URI, Title: chunk.Web.Title},
		})
	}
	return chunks
}
