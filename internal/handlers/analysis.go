package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/config"
	"rankcheck/internal/draft"
	"rankcheck/internal/metrics"
	"rankcheck/internal/middleware"
	"rankcheck/internal/models"
	"rankcheck/internal/snapshot"
	"rankcheck/internal/validation"
	"rankcheck/internal/workspace"
)

// Toast kinds.
const (
	toastSuccess = "success"
	toastInfo    = "info"
)

// AnalysisHandler serves the form page and its HTMX interactions.
type AnalysisHandler struct {
	analyzer     Analyzer
	snapshots    *snapshot.Repository
	workspaces   *workspace.Registry
	cfg          *config.Config
	defaultDepth int
}

// NewAnalysisHandler creates a new analysis page handler.
func NewAnalysisHandler(analyzer Analyzer, snapshots *snapshot.Repository, workspaces *workspace.Registry, cfg *config.Config, defaultDepth int) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:     analyzer,
		snapshots:    snapshots,
		workspaces:   workspaces,
		cfg:          cfg,
		defaultDepth: validation.ClampSearchDepth(defaultDepth),
	}
}

// Index renders the form page with the browser's current results.
func (h *AnalysisHandler) Index(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)
	var state workspace.State
	if !middleware.FirstVisit(c) {
		state = h.workspaces.Get(middleware.Slot(c))
	}

	form := draft.New().SetSearchDepth(h.defaultDepth)
	if state.Response != nil {
		form = draftFromRequest(state.Request)
	}

	data := h.workspaceData(form, state, "")
	data["User"] = user
	return c.Render("index", MergeBranding(data, h.cfg))
}

// Draft applies one form action and re-renders the form.
func (h *AnalysisHandler) Draft(c fiber.Ctx) error {
	form := draftFromForm(c)

	index, _ := strconv.Atoi(c.FormValue("index"))
	next, err := form.Apply(draft.Action{
		Kind:  draft.Kind(c.FormValue("action")),
		Index: index,
		Value: c.FormValue("value"),
		Depth: validation.ParseSearchDepth(c.FormValue("depth")),
	})
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return htmxError(c, "Unknown form action.")
	}

	state := h.workspaces.Get(middleware.Slot(c))
	return c.Render("partials/form", h.workspaceData(next, state, ""), "")
}

// Analyze validates the form, runs the analysis and renders the results.
// Previous results stay on screen when anything fails.
func (h *AnalysisHandler) Analyze(c fiber.Ctx) error {
	slot := middleware.Slot(c)
	form := draftFromForm(c)

	req, err := form.Submission()
	if err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeValidationError, 0)
		return h.renderResults(c, slot, analysisErrorMessage(err))
	}

	if !h.workspaces.TryStart(slot) {
		metrics.ObserveAnalysis(metrics.OutcomeBusy, 0)
		return h.renderResults(c, slot, msgBusy)
	}

	resp, err := h.analyzer.Analyze(c.Context(), req.OwnWebsite, req.CompetitorWebsites, req.Keywords, req.SearchDepth)
	if err != nil {
		h.workspaces.Finish(slot)
		return h.renderResults(c, slot, analysisErrorMessage(err))
	}

	h.workspaces.Complete(slot, req, resp)
	return h.renderResults(c, slot, "")
}

// Save stores the current form and results as the browser's saved analysis.
func (h *AnalysisHandler) Save(c fiber.Ctx) error {
	slot := middleware.Slot(c)
	state := h.workspaces.Get(slot)
	if !state.HasResults() {
		metrics.RecordSnapshot(metrics.SnapshotSave, metrics.SnapshotEmpty)
		return renderToast(c, toastInfo, "Nothing to save. Run an analysis first.")
	}

	form := draftFromForm(c)
	snap := models.StoredAnalysisSnapshot{
		MyWebsite:          form.OwnWebsite,
		CompetitorWebsites: form.Competitors,
		Keywords:           form.Keywords,
		SearchDepth:        validation.ClampSearchDepth(form.SearchDepth),
		AnalysisData:       state.Response.AnalysisData,
		GroundingChunks:    state.Response.GroundingChunks,
		SavedAt:            time.Now().UTC(),
	}
	if err := h.snapshots.Save(c.Context(), slot, snap); err != nil {
		slog.Error("failed to save analysis", "error", err)
		metrics.RecordSnapshot(metrics.SnapshotSave, metrics.SnapshotError)
		return renderToast(c, toastInfo, "Nothing was saved. Please try again.")
	}

	metrics.RecordSnapshot(metrics.SnapshotSave, metrics.SnapshotOK)
	return renderToast(c, toastSuccess, "Analysis saved")
}

// Load restores the saved analysis into the form and results.
func (h *AnalysisHandler) Load(c fiber.Ctx) error {
	slot := middleware.Slot(c)

	snap, err := h.snapshots.Load(c.Context(), slot)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			metrics.RecordSnapshot(metrics.SnapshotLoad, metrics.SnapshotEmpty)
		} else {
			slog.Error("failed to load analysis", "error", err)
			metrics.RecordSnapshot(metrics.SnapshotLoad, metrics.SnapshotError)
		}
		return renderToast(c, toastInfo, "No saved analysis found")
	}

	h.workspaces.Restore(slot, *snap)
	metrics.RecordSnapshot(metrics.SnapshotLoad, metrics.SnapshotOK)

	data := h.workspaceData(draft.FromSnapshot(*snap), h.workspaces.Get(slot), "")
	data["Toast"] = fiber.Map{"Kind": toastSuccess, "Message": "Last analysis loaded"}
	return c.Render("partials/workspace", data, "")
}

func (h *AnalysisHandler) renderResults(c fiber.Ctx, slot, errMsg string) error {
	state := h.workspaces.Get(slot)
	return c.Render("partials/results", h.workspaceData(draft.Draft{}, state, errMsg), "")
}

func (h *AnalysisHandler) workspaceData(form draft.Draft, state workspace.State, errMsg string) fiber.Map {
	return fiber.Map{
		"Form":     form,
		"MinDepth": models.MinSearchDepth,
		"MaxDepth": models.MaxSearchDepth,
		"Running":  state.Running,
		"Error":    errMsg,
		"Results":  BuildResultsView(state.Response, state.Request.OwnWebsite, state.Request.CompetitorWebsites),
	}
}

func renderToast(c fiber.Ctx, kind, message string) error {
	return c.Render("partials/toast", fiber.Map{"Kind": kind, "Message": message}, "")
}

// draftFromForm rebuilds the draft from the posted form. Repeated fields keep
// their order, including blank rows.
func draftFromForm(c fiber.Ctx) draft.Draft {
	args := c.Request().PostArgs()
	return draft.Draft{
		OwnWebsite:  c.FormValue("ownWebsite"),
		Competitors: multiValue(args.PeekMulti("competitor")),
		Keywords:    multiValue(args.PeekMulti("keyword")),
		SearchDepth: validation.ParseSearchDepth(c.FormValue("searchDepth")),
	}
}

func multiValue(raw [][]byte) []string {
	values := make([]string, len(raw))
	for i, v := range raw {
		values[i] = string(v)
	}
	return values
}

func draftFromRequest(req models.AnalysisRequest) draft.Draft {
	return draft.FromSnapshot(models.StoredAnalysisSnapshot{
		MyWebsite:          req.OwnWebsite,
		CompetitorWebsites: req.CompetitorWebsites,
		Keywords:           req.Keywords,
		SearchDepth:        req.SearchDepth,
	})
}
