package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/MehdiBenameur/skyhire/internal/apperrors"
)

// Every JSON body follows the {status, message?, data?} envelope.

func respondSuccess(c fiber.Ctx, statusCode int, message string, data fiber.Map) error {
	body := fiber.Map{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

func respondError(c fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// ErrorHandler keeps the response envelope for errors raised outside the
// handlers. The important case is the transport-level body cutoff: an upload
// beyond the server's body limit is rejected before any handler runs, and the
// caller still has to see an oversized file as a validation failure, not a
// bare 413.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			return respondError(c, fiber.StatusBadRequest, "File size too large")
		}
		return respondError(c, fiberErr.Code, fiberErr.Message)
	}
	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.OriginalURL(), err)
	return respondError(c, fiber.StatusInternalServerError, "Internal server error")
}

// respondFailure maps the error taxonomy onto HTTP statuses with generic
// messages. Anything outside the taxonomy is logged server-side and answered
// with a bare 500.
func respondFailure(c fiber.Ctx, err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, notFoundMessage)
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAnalysisShape):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		return respondError(c, fiber.StatusConflict, "Already applied to this job")
	case errors.Is(err, apperrors.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return respondError(c, fiber.StatusUnauthorized, "Not authorized")
	default:
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.OriginalURL(), err)
		return respondError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
