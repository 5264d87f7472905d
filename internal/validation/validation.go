package validation

import (
	"errors"
	"strconv"
	"strings"

	"rankcheck/internal/models"
)

// Validation failures reported before any provider call.
var (
	ErrWebsiteRequired = errors.New("your website is required")
	ErrKeywordRequired = errors.New("at least one keyword is required")
)

// ValidationError lists every problem found in a submission.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FilterBlank drops blank entries and keeps the rest untouched, in order.
func FilterBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !IsBlank(v) {
			out = append(out, v)
		}
	}
	return out
}

// ClampSearchDepth bounds a search depth to [MinSearchDepth, MaxSearchDepth].
func ClampSearchDepth(depth int) int {
	return max(models.MinSearchDepth, min(models.MaxSearchDepth, depth))
}

// ParseSearchDepth reads a depth from form input. Anything that is not a
// number becomes the minimum depth.
func ParseSearchDepth(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return models.MinSearchDepth
	}
	return ClampSearchDepth(n)
}

// ValidateSubmission checks the filtered inputs of an analysis request.
func ValidateSubmission(ownWebsite string, keywords []string) error {
	var problems []error
	if IsBlank(ownWebsite) {
		problems = append(problems, ErrWebsiteRequired)
	}
	if len(FilterBlank(keywords)) == 0 {
		problems = append(problems, ErrKeywordRequired)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
