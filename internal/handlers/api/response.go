package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"rankcheck/internal/analysis"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonAnalysisError maps an analysis failure to a status and a message that
// names the failure kind without leaking the cause.
func jsonAnalysisError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, analysis.ErrInvalidResponseFormat):
		return jsonError(c, fiber.StatusBadGateway, "provider returned an invalid response format")
	case errors.Is(err, analysis.ErrProviderUnavailable):
		return jsonError(c, fiber.StatusBadGateway, "analysis provider unavailable")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "analysis failed")
	}
}
