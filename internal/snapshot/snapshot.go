package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"rankcheck/internal/models"
)

// ErrNoSnapshot means nothing usable was saved for the slot.
var ErrNoSnapshot = errors.New("no saved analysis")

// Repository saves and loads analysis snapshots.
type Repository struct {
	store Store
}

// NewRepository creates a repository over the given backend.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Key returns the storage key for a browser slot. An empty slot maps to the
// bare well-known key.
func Key(slot string) string {
	if slot == "" {
		return models.SnapshotKey
	}
	return models.SnapshotKey + ":" + slot
}

// Save serializes the snapshot and overwrites whatever the slot held.
func (r *Repository) Save(ctx context.Context, slot string, s models.StoredAnalysisSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := r.store.Set(ctx, Key(slot), data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads the slot's snapshot. A missing or undecodable value yields
// ErrNoSnapshot; missing properties are filled with defaults.
func (r *Repository) Load(ctx context.Context, slot string) (*models.StoredAnalysisSnapshot, error) {
	data, err := r.store.Get(ctx, Key(slot))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var s models.StoredAnalysisSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("discarding undecodable snapshot", "key", Key(slot), "error", err)
		return nil, ErrNoSnapshot
	}
	s.ApplyDefaults()
	return &s, nil
}

// Ping checks the backend.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
