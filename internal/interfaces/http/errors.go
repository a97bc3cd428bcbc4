package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
)

// writeError bildet Domänenfehler auf HTTP-Status und Fehlerkörper ab.
// Renderfehler tragen retryable, damit der Client den Versuch wiederholen kann.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource nicht gefunden"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ressource bereits vorhanden"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "statusübergang nicht erlaubt"})
	case errors.Is(err, domain.ErrRemindersDisabled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REMINDERS_DISABLED", Message: "mahnwesen ist deaktiviert"})
	case errors.Is(err, domain.ErrReminderStageLimit):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STAGE_LIMIT", Message: "höchste mahnstufe bereits erreicht"})
	case errors.Is(err, domain.ErrNotOverdue):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_OVERDUE", Message: "rechnung ist nicht überfällig"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrGeneration):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "GENERATION", Message: "dokumenterzeugung fehlgeschlagen", Retryable: true})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "request-körper nicht lesbar"})
}
