package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"rankcheck/internal/models"
)

var (
	errUnexpectedShape = errors.New("expected a JSON array of query results")
	errNullQuery       = errors.New("query result is null")
	errMissingQuery    = errors.New("query result has no query")
	errMissingResults  = errors.New("query result has no results")
	errNullItem        = errors.New("result item is null")
	errMissingWebsite  = errors.New("result item has no website")
)

// wireQueryResult and wireItem mirror the provider's JSON with pointer fields
// so absent keys can be told apart from zero values.
type wireQueryResult struct {
	Query   *string      `json:"query"`
	Results *[]*wireItem `json:"results"`
}

type wireItem struct {
	Website *string `json:"website"`
	Rank    *int    `json:"rank"`
	Title   *string `json:"title"`
	Found   bool    `json:"found"`
}

// ParseAnalysisData strictly decodes an extracted payload.
//
// The payload must be a JSON array of query results; a single query result
// object is accepted and treated as a one-element array. Unknown keys, null
// entries, a missing or empty query, missing results and items without a
// website are rejected, as is trailing data after the value. Items reported
// as not found have rank and title cleared.
func ParseAnalysisData(payload string) (models.AnalysisData, error) {
	trimmed := bytes.TrimSpace([]byte(payload))
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}

	var wire []*wireQueryResult
	switch trimmed[0] {
	case '[':
		if err := decodeStrict(trimmed, &wire); err != nil {
			return nil, err
		}
	case '{':
		var single wireQueryResult
		if err := decodeStrict(trimmed, &single); err != nil {
			return nil, err
		}
		wire = []*wireQueryResult{&single}
	default:
		return nil, errUnexpectedShape
	}

	out := make(models.AnalysisData, 0, len(wire))
	for i, w := range wire {
		qr, err := w.toModel()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, qr)
	}
	return out, nil
}

func (w *wireQueryResult) toModel() (models.QueryResult, error) {
	switch {
	case w == nil:
		return models.QueryResult{}, errNullQuery
	case w.Query == nil || *w.Query == "":
		return models.QueryResult{}, errMissingQuery
	case w.Results == nil:
		return models.QueryResult{}, errMissingResults
	}

	qr := models.QueryResult{
		Query:   *w.Query,
		Results: make([]models.AnalysisResultItem, 0, len(*w.Results)),
	}
	for j, item := range *w.Results {
		if item == nil {
			return models.QueryResult{}, fmt.Errorf("result %d: %w", j, errNullItem)
		}
		if item.Website == nil || *item.Website == "" {
			return models.QueryResult{}, fmt.Errorf("result %d: %w", j, errMissingWebsite)
		}
		r := models.AnalysisResultItem{Website: *item.Website, Found: item.Found}
		if item.Found {
			r.Rank = item.Rank
			r.Title = item.Title
		}
		qr.Results = append(qr.Results, r)
	}
	return qr, nil
}

// decodeStrict decodes exactly one JSON value with no unknown keys and
// rejects anything after it.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// ParseResponseText runs both pipeline stages: extraction, then strict parsing.
// Any failure is reported as a *ResponseFormatError holding the raw text.
func ParseResponseText(text string) (models.AnalysisData, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return nil, &ResponseFormatError{Raw: text, Err: err}
	}
	data, err := ParseAnalysisData(payload)
	if err != nil {
		return nil, &ResponseFormatError{Raw: text, Err: err}
	}
	return data, nil
}
