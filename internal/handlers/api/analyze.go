package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/analysis"
	"rankcheck/internal/metrics"
	"rankcheck/internal/middleware"
	"rankcheck/internal/models"
	"rankcheck/internal/validation"
	"rankcheck/internal/workspace"
)

// Analyzer runs one rank-check analysis.
type Analyzer interface {
	Analyze(ctx context.Context, ownWebsite string, competitorWebsites, keywords []string, searchDepth int) (*models.AnalysisResponse, error)
}

// AnalysisHandler exposes analysis and aggregation as JSON.
type AnalysisHandler struct {
	analyzer   Analyzer
	workspaces *workspace.Registry
}

// NewAnalysisHandler creates a new API analysis handler.
func NewAnalysisHandler(analyzer Analyzer, workspaces *workspace.Registry) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer, workspaces: workspaces}
}

// Analyze runs an analysis for a JSON AnalysisRequest.
func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	var body models.AnalysisRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	req := models.AnalysisRequest{
		OwnWebsite:         body.OwnWebsite,
		CompetitorWebsites: validation.FilterBlank(body.CompetitorWebsites),
		Keywords:           validation.FilterBlank(body.Keywords),
		SearchDepth:        body.SearchDepth,
	}
	if req.SearchDepth == 0 {
		req.SearchDepth = models.DefaultSearchDepth
	}
	req.SearchDepth = validation.ClampSearchDepth(req.SearchDepth)

	if err := validation.ValidateSubmission(req.OwnWebsite, req.Keywords); err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeValidationError, 0)
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	slot := middleware.Slot(c)
	if !h.workspaces.TryStart(slot) {
		metrics.ObserveAnalysis(metrics.OutcomeBusy, 0)
		return jsonError(c, fiber.StatusConflict, "analysis already running")
	}

	resp, err := h.analyzer.Analyze(c.Context(), req.OwnWebsite, req.CompetitorWebsites, req.Keywords, req.SearchDepth)
	if err != nil {
		h.workspaces.Finish(slot)
		return jsonAnalysisError(c, err)
	}

	h.workspaces.Complete(slot, req, resp)
	return jsonSuccess(c, resp)
}

// Aggregate counts appearances per tracked website for posted analysis data.
func (h *AnalysisHandler) Aggregate(c fiber.Ctx) error {
	var body struct {
		AnalysisData       models.AnalysisData `json:"analysisData"`
		MyWebsite          string              `json:"myWebsite"`
		CompetitorWebsites []string            `json:"competitorWebsites"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	return jsonSuccess(c, analysis.AggregateAppearances(body.AnalysisData, body.MyWebsite, body.CompetitorWebsites))
}
