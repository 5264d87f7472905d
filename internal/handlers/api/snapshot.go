package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/metrics"
	"rankcheck/internal/middleware"
	"rankcheck/internal/models"
	"rankcheck/internal/snapshot"
)

// SnapshotHandler reads and writes the browser's saved analysis.
type SnapshotHandler struct {
	snapshots *snapshot.Repository
}

// NewSnapshotHandler creates a new API snapshot handler.
func NewSnapshotHandler(snapshots *snapshot.Repository) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Get returns the saved analysis, 404 when there is none.
func (h *SnapshotHandler) Get(c fiber.Ctx) error {
	snap, err := h.snapshots.Load(c.Context(), middleware.Slot(c))
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			metrics.RecordSnapshot(metrics.SnapshotLoad, metrics.SnapshotEmpty)
			return jsonError(c, fiber.StatusNotFound, "no saved analysis")
		}
		slog.Error("failed to load analysis", "error", err)
		metrics.RecordSnapshot(metrics.SnapshotLoad, metrics.SnapshotError)
		return jsonError(c, fiber.StatusInternalServerError, "failed to load analysis")
	}

	metrics.RecordSnapshot(metrics.SnapshotLoad, metrics.SnapshotOK)
	return jsonSuccess(c, snap)
}

// Put overwrites the saved analysis with the request body.
func (h *SnapshotHandler) Put(c fiber.Ctx) error {
	var snap models.StoredAnalysisSnapshot
	if err := json.Unmarshal(c.Body(), &snap); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	snap.ApplyDefaults()
	snap.SavedAt = time.Now().UTC()

	if err := h.snapshots.Save(c.Context(), middleware.Slot(c), snap); err != nil {
		slog.Error("failed to save analysis", "error", err)
		metrics.RecordSnapshot(metrics.SnapshotSave, metrics.SnapshotError)
		return jsonError(c, fiber.StatusInternalServerError, "failed to save analysis")
	}

	metrics.RecordSnapshot(metrics.SnapshotSave, metrics.SnapshotOK)
	return jsonSuccess(c, snap)
}
