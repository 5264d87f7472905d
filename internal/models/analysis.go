package models

// Search depth bounds and default.
const (
	MinSearchDepth     = 10
	MaxSearchDepth     = 50
	DefaultSearchDepth = 20
)

// AnalysisRequest is a validated, filtered submission ready for the provider.
type AnalysisRequest struct {
	OwnWebsite         string   `json:"myWebsite"`
	CompetitorWebsites []string `json:"competitorWebsites"`
	Keywords           []string `json:"keywords"`
	SearchDepth        int      `json:"searchDepth"`
}

// Websites returns the own website followed by competitors, dropping empty strings.
// Duplicates are kept; the provider sees exactly what the user typed.
func (r AnalysisRequest) Websites() []string {
	sites := make([]string, 0, len(r.CompetitorWebsites)+1)
	for _, s := range append([]string{r.OwnWebsite}, r.CompetitorWebsites...) {
		if s != "" {
			sites = append(sites, s)
		}
	}
	return sites
}

// AnalysisResultItem is one website's presence for one query.
type AnalysisResultItem struct {
	Website string  `json:"website"`
	Rank    *int    `json:"rank"`
	Title   *string `json:"title"`
	Found   bool    `json:"found"`
}

// RankValue returns the rank and whether it is present. Items that were not
// found never report a rank.
func (i AnalysisResultItem) RankValue() (int, bool) {
	if !i.Found || i.Rank == nil {
		return 0, false
	}
	return *i.Rank, true
}

// TitleValue returns the result title, empty when absent or not found.
func (i AnalysisResultItem) TitleValue() string {
	if !i.Found || i.Title == nil {
		return ""
	}
	return *i.Title
}

// QueryResult holds the results for a single keyword.
type QueryResult struct {
	Query   string               `json:"query"`
	Results []AnalysisResultItem `json:"results"`
}

// Find returns the first result item for the given website.
func (q QueryResult) Find(website string) (AnalysisResultItem, bool) {
	for _, r := range q.Results {
		if r.Website == website {
			return r, true
		}
	}
	return AnalysisResultItem{}, false
}

// AnalysisData is the full provider answer, one entry per keyword.
type AnalysisData []QueryResult

// GroundingWeb is the web source behind a grounding citation.
type GroundingWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// GroundingChunk is a citation the provider attached to its answer.
type GroundingChunk struct {
	Web GroundingWeb `json:"web"`
}

// Label returns the title, falling back to the URI.
func (g GroundingChunk) Label() string {
	if g.Web.Title != "" {
		return g.Web.Title
	}
	return g.Web.URI
}

// AnalysisResponse is what a single analysis call produces.
type AnalysisResponse struct {
	AnalysisData    AnalysisData     `json:"analysisData"`
	GroundingChunks []GroundingChunk `json:"groundingChunks"`
}

// Appearance is one bar of the summary chart.
type Appearance struct {
	Name        string `json:"name"`
	Appearances int    `json:"appearances"`
}
