// Package draft holds the analysis form as an immutable value.
//
// Every transition returns a new Draft and leaves the receiver untouched, so
// a handler can rebuild the draft from a request, apply one action and render
// the result without any shared state.
package draft

import (
	"slices"

	"rankcheck/internal/models"
	"rankcheck/internal/validation"
)

// Draft is the unvalidated state of the analysis form.
type Draft struct {
	OwnWebsite  string
	Competitors []string
	Keywords    []string
	SearchDepth int
}

// New returns an empty form with one blank competitor and keyword row.
func New() Draft {
	return Draft{
		Competitors: []string{""},
		Keywords:    []string{""},
		SearchDepth: models.DefaultSearchDepth,
	}
}

// FromSnapshot restores the form fields of a saved analysis.
func FromSnapshot(s models.StoredAnalysisSnapshot) Draft {
	d := Draft{
		OwnWebsite:  s.MyWebsite,
		Competitors: slices.Clone(s.CompetitorWebsites),
		Keywords:    slices.Clone(s.Keywords),
		SearchDepth: validation.ClampSearchDepth(s.SearchDepth),
	}
	if len(d.Competitors) == 0 {
		d.Competitors = []string{""}
	}
	if len(d.Keywords) == 0 {
		d.Keywords = []string{""}
	}
	return d
}

func (d Draft) clone() Draft {
	d.Competitors = slices.Clone(d.Competitors)
	d.Keywords = slices.Clone(d.Keywords)
	return d
}

// SetOwnWebsite replaces the user's website.
func (d Draft) SetOwnWebsite(v string) Draft {
	n := d.clone()
	n.OwnWebsite = v
	return n
}

// SetSearchDepth sets the depth, clamped to the allowed range.
func (d Draft) SetSearchDepth(depth int) Draft {
	n := d.clone()
	n.SearchDepth = validation.ClampSearchDepth(depth)
	return n
}

// AddCompetitor appends a blank competitor row.
func (d Draft) AddCompetitor() Draft {
	n := d.clone()
	n.Competitors = append(n.Competitors, "")
	return n
}

// RemoveCompetitor drops the competitor row at i. Out of range is a no-op.
func (d Draft) RemoveCompetitor(i int) Draft {
	n := d.clone()
	if i >= 0 && i < len(n.Competitors) {
		n.Competitors = slices.Delete(n.Competitors, i, i+1)
	}
	return n
}

// EditCompetitor replaces the competitor row at i. Out of range is a no-op.
func (d Draft) EditCompetitor(i int, v string) Draft {
	n := d.clone()
	if i >= 0 && i < len(n.Competitors) {
		n.Competitors[i] = v
	}
	return n
}

// AddKeyword appends a blank keyword row.
func (d Draft) AddKeyword() Draft {
	n := d.clone()
	n.Keywords = append(n.Keywords, "")
	return n
}

// RemoveKeyword drops the keyword row at i. Out of range is a no-op.
func (d Draft) RemoveKeyword(i int) Draft {
	n := d.clone()
	if i >= 0 && i < len(n.Keywords) {
		n.Keywords = slices.Delete(n.Keywords, i, i+1)
	}
	return n
}

// EditKeyword replaces the keyword row at i. Out of range is a no-op.
func (d Draft) EditKeyword(i int, v string) Draft {
	n := d.clone()
	if i >= 0 && i < len(n.Keywords) {
		n.Keywords[i] = v
	}
	return n
}

// Submission filters blank rows and validates the form, producing the
// request sent to the analysis client.
func (d Draft) Submission() (models.AnalysisRequest, error) {
	req := models.AnalysisRequest{
		OwnWebsite:         d.OwnWebsite,
		CompetitorWebsites: validation.FilterBlank(d.Competitors),
		Keywords:           validation.FilterBlank(d.Keywords),
		SearchDepth:        validation.ClampSearchDepth(d.SearchDepth),
	}
	if err := validation.ValidateSubmission(req.OwnWebsite, req.Keywords); err != nil {
		return models.AnalysisRequest{}, err
	}
	return req, nil
}
