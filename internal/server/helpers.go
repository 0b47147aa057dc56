package server

import (
	"log/slog"
	"strconv"

	"promptfeed/internal/middleware"
	"promptfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// statusForCode maps an AppError code to its HTTP status.
func statusForCode(code string) int {
	switch code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return models.CodeNotFound
	case status >= 400 && status < 500:
		return models.CodeValidation
	default:
		return models.CodeInternal
	}
}

// mapServiceError writes err with the status for its code. Server-side
// failures are logged with the wrapped cause; the client only sees the
// sanitized message.
func mapServiceError(c *fiber.Ctx, err error) error {
	code := models.CodeOf(err)
	status := statusForCode(code)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("code", code),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// badRequest writes a validation error for a malformed body.
func badRequest(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(message))
}

// parseLimit reads ?limit=. A missing or non-numeric value means no limit (0).
func parseLimit(c *fiber.Ctx) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
