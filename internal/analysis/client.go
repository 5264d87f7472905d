package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rankcheck/internal/metrics"
	"rankcheck/internal/models"
	"rankcheck/internal/validation"
)

// Generation is the raw answer of a text-generation provider.
type Generation struct {
	Text            string
	GroundingChunks []models.GroundingChunk
}

// Generator sends one prompt to a hosted model with web search grounding enabled.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

// Client turns rank-check requests into provider calls and structured results.
type Client struct {
	gen          Generator
	instructions string
}

// NewClient creates an analysis client. instructions is optional extra prompt text.
func NewClient(gen Generator, instructions string) *Client {
	return &Client{gen: gen, instructions: instructions}
}

// Analyze asks the provider where each website ranks for each keyword.
//
// Callers filter blank entries first. When there is no website or no keyword
// the provider is not contacted and an empty response is returned. Exactly one
// provider call is made otherwise; there are no retries.
func (c *Client) Analyze(ctx context.Context, ownWebsite string, competitorWebsites, keywords []string, searchDepth int) (*models.AnalysisResponse, error) {
	req := models.AnalysisRequest{
		OwnWebsite:         ownWebsite,
		CompetitorWebsites: competitorWebsites,
		Keywords:           keywords,
		SearchDepth:        validation.ClampSearchDepth(searchDepth),
	}
	websites := req.Websites()
	if len(websites) == 0 || len(keywords) == 0 {
		return emptyResponse(), nil
	}

	prompt, err := BuildPrompt(PromptInput{
		Keywords:     keywords,
		Websites:     websites,
		SearchDepth:  req.SearchDepth,
		Instructions: c.instructions,
	})
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	start := time.Now()
	slog.Info("analysis started", "analysis_id", id, "keywords", len(keywords), "websites", len(websites), "depth", req.SearchDepth)

	gen, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			err = &ProviderError{Err: err}
		}
		slog.Error("analysis provider call failed", "analysis_id", id, "error", err)
		metrics.ObserveAnalysis(metrics.OutcomeProviderUnavailable, time.Since(start))
		return nil, err
	}

	data, err := ParseResponseText(gen.Text)
	if err != nil {
		slog.Error("analysis response could not be parsed", "analysis_id", id, "error", err, "raw", gen.Text)
		metrics.ObserveAnalysis(metrics.OutcomeInvalidResponse, time.Since(start))
		return nil, err
	}

	chunks := gen.GroundingChunks
	if chunks == nil {
		chunks = []models.GroundingChunk{}
	}

	slog.Info("analysis completed", "analysis_id", id, "queries", len(data), "sources", len(chunks), "duration", time.Since(start))
	metrics.ObserveAnalysis(metrics.OutcomeSuccess, time.Since(start))
	return &models.AnalysisResponse{AnalysisData: data, GroundingChunks: chunks}, nil
}

func emptyResponse() *models.AnalysisResponse {
	return &models.AnalysisResponse{
		AnalysisData:    models.AnalysisData{},
		GroundingChunks: []models.GroundingChunk{},
	}
}
