package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/application/dto"
)

// QuoteHandler HTTP-Endpunkte für Angebote.
type QuoteHandler struct {
	uc      *billing.QuoteUseCase
	convert *billing.ConvertUseCase
	docs    *documents.UseCase
}

// NewQuoteHandler baut den Handler.
func NewQuoteHandler(uc *billing.QuoteUseCase, convert *billing.ConvertUseCase, docs *documents.UseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc, convert: convert, docs: docs}
}

// Create POST /api/quotes
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	q, err := h.uc.Create(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// Get GET /api/quotes/:id
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	q, err := h.uc.Get(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(q)
}

// List GET /api/quotes?status=sent&limit=20&offset=0
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/quotes/:id — nur im Status draft oder sent.
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	q, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(q)
}

// UpdateStatus PATCH /api/quotes/:id/status
func (h *QuoteHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	q, err := h.uc.UpdateStatus(GetCompanyID(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(q)
}

// ToInvoice POST /api/quotes/:id/invoice — überführt das Angebot in eine Rechnung.
func (h *QuoteHandler) ToInvoice(c *fiber.Ctx) error {
	inv, err := h.convert.QuoteToInvoice(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// Document GET /api/quotes/:id/documents/pdf
func (h *QuoteHandler) Document(c *fiber.Ctx) error {
	doc, err := h.docs.Resolve(c.Context(), dto.DocumentRefDTO{Type: documents.RefQuotePDF, ID: c.Params("id")}, "")
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc)
}
