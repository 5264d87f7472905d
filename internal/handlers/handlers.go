package handlers

import (
	"context"
	"errors"
	"html"

	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/analysis"
	"rankcheck/internal/models"
	"rankcheck/internal/validation"
)

// Analyzer runs one rank-check analysis.
type Analyzer interface {
	Analyze(ctx context.Context, ownWebsite string, competitorWebsites, keywords []string, searchDepth int) (*models.AnalysisResponse, error)
}

// User-facing messages. Causes are logged, never shown.
const (
	msgValidation      = "Please enter your website and at least one keyword."
	msgBusy            = "An analysis is already running. Please wait for it to finish."
	msgUnavailable     = "The analysis service is unavailable right now. Please try again in a moment."
	msgInvalidResponse = "The analysis service answered in an unexpected format. Please try again."
	msgUnknown         = "Something went wrong while running the analysis."
)

// analysisErrorMessage maps an analysis failure to the banner text.
func analysisErrorMessage(err error) string {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return msgValidation
	case errors.Is(err, analysis.ErrInvalidResponseFormat):
		return msgInvalidResponse
	case errors.Is(err, analysis.ErrProviderUnavailable):
		return msgUnavailable
	default:
		return msgUnknown
	}
}

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="banner banner-error" role="alert">` + html.EscapeString(message) + `</div>`,
	)
}
