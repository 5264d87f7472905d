package models

import "time"

// SnapshotKey is the well-known storage key for the last saved analysis.
const SnapshotKey = "seoAnalysisResults"

// StoredAnalysisSnapshot is the last analysis, inputs and outputs, as saved by the user.
type StoredAnalysisSnapshot struct {
	MyWebsite          string           `json:"myWebsite"`
	CompetitorWebsites []string         `json:"competitorWebsites"`
	Keywords           []string         `json:"keywords"`
	SearchDepth        int              `json:"searchDepth"`
	AnalysisData       AnalysisData     `json:"analysisData"`
	GroundingChunks    []GroundingChunk `json:"groundingChunks"`
	SavedAt            time.Time        `json:"savedAt,omitzero"`
}

// ApplyDefaults fills properties missing from an older or partial snapshot.
// AnalysisData stays nil when absent.
func (s *StoredAnalysisSnapshot) ApplyDefaults() {
	if s.CompetitorWebsites == nil {
		s.CompetitorWebsites = []string{}
	}
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.SearchDepth == 0 {
		s.SearchDepth = DefaultSearchDepth
	}
	if s.GroundingChunks == nil {
		s.GroundingChunks = []GroundingChunk{}
	}
}
