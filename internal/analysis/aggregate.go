package analysis

import (
	"strings"

	"rankcheck/internal/models"
)

// AggregateAppearances counts, per tracked website, the queries it was found in.
//
// Tracked websites are the own website followed by competitors in input
// order. Blank entries are skipped and duplicates collapse into one counter.
// Every tracked website gets an entry even with zero appearances. A website
// counts at most once per query, however many times the provider lists it.
// Matching is exact string equality.
func AggregateAppearances(data models.AnalysisData, ownWebsite string, competitorWebsites []string) []models.Appearance {
	var order []string
	counts := make(map[string]int)
	track := func(site string) {
		if strings.TrimSpace(site) == "" {
			return
		}
		if _, ok := counts[site]; ok {
			return
		}
		counts[site] = 0
		order = append(order, site)
	}

	track(ownWebsite)
	for _, c := range competitorWebsites {
		track(c)
	}

	for _, q := range data {
		seen := make(map[string]bool, len(q.Results))
		for _, r := range q.Results {
			if !r.Found || seen[r.Website] {
				continue
			}
			if _, ok := counts[r.Website]; !ok {
				continue
			}
			seen[r.Website] = true
			counts[r.Website]++
		}
	}

	out := make([]models.Appearance, 0, len(order))
	for _, site := range order {
		out = append(out, models.Appearance{Name: site, Appearances: counts[site]})
	}
	return out
}
