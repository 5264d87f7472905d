package handlers

import (
	"slices"
	"strings"

	"rankcheck/internal/analysis"
	"rankcheck/internal/models"
)

// ResultsView is everything the results partial renders.
type ResultsView struct {
	Columns []Column
	Rows    []Row
	Chart   []Bar
	Sources []Source
}

// Column is one website column of the results table.
type Column struct {
	Website string
	Own     bool
}

// Row is one keyword of the results table.
type Row struct {
	Query string
	Cells []Cell
}

// Cell is one website's standing for one keyword.
type Cell struct {
	Website        string
	Found          bool
	Rank           int
	HasRank        bool
	Title          string
	Own            bool
	BestCompetitor bool
}

// Podium returns "gold", "silver" or "bronze" for ranks 1 to 3.
func (c Cell) Podium() string {
	if !c.HasRank {
		return ""
	}
	switch c.Rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	}
	return ""
}

// Hover is the detail shown when pointing at a found cell.
func (c Cell) Hover() string {
	if !c.Found {
		return ""
	}
	title := c.Title
	if title == "" {
		title = "Not available"
	}
	return title + "\n" + c.Website
}

// Bar is one bar of the appearances chart.
type Bar struct {
	Name        string
	Appearances int
	Percent     int
	Own         bool
}

// Source is a grounding citation.
type Source struct {
	URI   string
	Label string
}

// BuildResultsView lays out a response for display. Columns come from the
// first query's websites, own website first and the rest alphabetically.
// It returns nil when there is nothing to show.
func BuildResultsView(resp *models.AnalysisResponse, ownWebsite string, competitorWebsites []string) *ResultsView {
	if resp == nil || len(resp.AnalysisData) == 0 {
		return nil
	}

	view := &ResultsView{
		Columns: columns(resp.AnalysisData[0], ownWebsite),
		Chart:   chart(resp.AnalysisData, ownWebsite, competitorWebsites),
	}

	for _, q := range resp.AnalysisData {
		best := bestCompetitor(q, ownWebsite)
		row := Row{Query: q.Query, Cells: make([]Cell, 0, len(view.Columns))}
		for _, col := range view.Columns {
			cell := Cell{Website: col.Website, Own: col.Own, BestCompetitor: !col.Own && col.Website == best}
			if item, ok := q.Find(col.Website); ok && item.Found {
				cell.Found = true
				cell.Rank, cell.HasRank = item.RankValue()
				cell.Title = item.TitleValue()
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}

	for _, chunk := range resp.GroundingChunks {
		if chunk.Web.URI == "" {
			continue
		}
		view.Sources = append(view.Sources, Source{URI: chunk.Web.URI, Label: chunk.Label()})
	}

	return view
}

func columns(first models.QueryResult, ownWebsite string) []Column {
	var sites []string
	for _, item := range first.Results {
		if !slices.Contains(sites, item.Website) {
			sites = append(sites, item.Website)
		}
	}
	slices.SortStableFunc(sites, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == ownWebsite:
			return -1
		case b == ownWebsite:
			return 1
		}
		return strings.Compare(a, b)
	})

	cols := make([]Column, len(sites))
	for i, s := range sites {
		cols[i] = Column{Website: s, Own: s == ownWebsite}
	}
	return cols
}

// bestCompetitor returns the found competitor with the lowest rank, first
// listed on ties, or "" when no competitor ranked.
func bestCompetitor(q models.QueryResult, ownWebsite string) string {
	best, bestRank := "", 0
	for _, item := range q.Results {
		if item.Website == ownWebsite {
			continue
		}
		rank, ok := item.RankValue()
		if !ok {
			continue
		}
		if best == "" || rank < bestRank {
			best, bestRank = item.Website, rank
		}
	}
	return best
}

func chart(data models.AnalysisData, ownWebsite string, competitorWebsites []string) []Bar {
	counts := analysis.AggregateAppearances(data, ownWebsite, competitorWebsites)
	highest := 0
	for _, a := range counts {
		highest = max(highest, a.Appearances)
	}

	bars := make([]Bar, len(counts))
	for i, a := range counts {
		bars[i] = Bar{Name: a.Name, Appearances: a.Appearances, Own: a.Name == ownWebsite}
		if highest > 0 {
			bars[i].Percent = a.Appearances * 100 / highest
		}
	}
	return bars
}
