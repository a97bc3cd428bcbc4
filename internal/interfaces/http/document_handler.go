package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
)

// DocumentHandler HTTP-Endpunkte für Belegauflösung, Vorschau, Sammelexport
// und das Dokumentenjournal.
type DocumentHandler struct {
	uc *documents.UseCase
}

// NewDocumentHandler baut den Handler.
func NewDocumentHandler(uc *documents.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// sendDocument schickt ein aufgelöstes Dokument als Download.
func sendDocument(c *fiber.Ctx, doc *documents.Resolved) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Send(doc.Bytes)
}

// Resolve POST /api/documents/resolve — löst eine Belegreferenz auf. Mit
// preview_token wird das Ergebnis zusätzlich für GET /preview registriert.
func (h *DocumentHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	doc, err := h.uc.Resolve(c.Context(), in.Ref, in.PreviewToken)
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc)
}

// Preview GET /api/documents/preview/:token
func (h *DocumentHandler) Preview(c *fiber.Ctx) error {
	doc, err := h.uc.Preview(c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}
	// Vorschauen inline, nicht als Download.
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.Filename))
	return c.Send(doc.Bytes)
}

// ReleasePreview DELETE /api/documents/preview/:token
func (h *DocumentHandler) ReleasePreview(c *fiber.Ctx) error {
	h.uc.ReleasePreview(c.Params("token"))
	return c.SendStatus(fiber.StatusNoContent)
}

// Export POST /api/documents/export — ZIP mit allen aufgelösten Belegen.
func (h *DocumentHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportDocumentsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	data, err := h.uc.Export(c.Context(), in.Refs)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="belege.zip"`)
	return c.Send(data)
}

// Journal GET /api/documents/journal?limit=50&offset=0
func (h *DocumentHandler) Journal(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 {
		return writeError(c, domain.ErrInvalidInput)
	}
	recs, err := h.uc.Journal(limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.JournalEntryResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.JournalEntryResponse{
			ID:          rec.ID,
			DocType:     rec.DocType,
			DocNumber:   rec.DocNumber,
			Format:      rec.Format,
			Filename:    rec.Filename,
			SHA256:      rec.SHA256,
			SizeBytes:   rec.SizeBytes,
			GeneratedAt: rec.GeneratedAt,
		})
	}
	return c.JSON(out)
}
