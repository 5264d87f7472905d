// Package workspace keeps the live analysis state of each browser: the last
// successful result and whether a provider call is outstanding.
package workspace

import (
	"slices"
	"sync"
	"time"

	"rankcheck/internal/models"
)

// State is a copy of one browser's workspace.
type State struct {
	Request  models.AnalysisRequest
	Response *models.AnalysisResponse
	Running  bool
	LastUsed time.Time
}

// HasResults reports whether there is a result set worth saving.
func (s State) HasResults() bool {
	return s.Response != nil && len(s.Response.AnalysisData) > 0
}

// Registry maps browser slots to their workspace. Safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*State)}
}

// state returns the slot's state, creating it, and marks it as used.
func (r *Registry) state(slot string) *State {
	s, ok := r.states[slot]
	if !ok {
		s = &State{}
		r.states[slot] = s
	}
	s.LastUsed = time.Now()
	return s
}

// TryStart marks an analysis as running for slot. It returns false, and
// changes nothing, when one is already in flight.
func (r *Registry) TryStart(slot string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state(slot)
	if s.Running {
		return false
	}
	s.Running = true
	return true
}

// Finish clears the running flag and keeps the previous result.
func (r *Registry) Finish(slot string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.states[slot]; ok {
		s.Running = false
	}
}

// Complete clears the running flag and replaces the result.
func (r *Registry) Complete(slot string, req models.AnalysisRequest, resp *models.AnalysisResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state(slot)
	s.Running = false
	s.Request = req
	s.Response = resp
}

// Restore replaces the result with a loaded snapshot without touching the
// running flag.
func (r *Registry) Restore(slot string, snap models.StoredAnalysisSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state(slot)
	s.Request = models.AnalysisRequest{
		OwnWebsite:         snap.MyWebsite,
		CompetitorWebsites: slices.Clone(snap.CompetitorWebsites),
		Keywords:           slices.Clone(snap.Keywords),
		SearchDepth:        snap.SearchDepth,
	}
	s.Response = nil
	if snap.AnalysisData != nil {
		s.Response = &models.AnalysisResponse{
			AnalysisData:    snap.AnalysisData,
			GroundingChunks: snap.GroundingChunks,
		}
	}
}

// Prune drops idle workspaces last used before cutoff. Running ones are kept.
// It returns how many were dropped.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for slot, s := range r.states {
		if !s.Running && s.LastUsed.Before(cutoff) {
			delete(r.states, slot)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of tracked workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// Get returns a copy of the slot's state. Unknown slots are empty.
func (r *Registry) Get(slot string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.states[slot]; ok {
		return *s
	}
	return State{}
}
