package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/domain"
)

// ReportHandler HTTP-Endpunkte für Auswertungen.
type ReportHandler struct {
	docs *documents.UseCase
}

// NewReportHandler baut den Handler.
func NewReportHandler(docs *documents.UseCase) *ReportHandler {
	return &ReportHandler{docs: docs}
}

// Revenue GET /api/reports/revenue/:year — Jahres-Umsatzbericht als PDF.
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	data, err := h.docs.Revenue(c.Context(), year)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="umsatzbericht.pdf"`)
	return c.Send(data)
}
