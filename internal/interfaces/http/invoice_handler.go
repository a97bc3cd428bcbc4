package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// InvoiceHandler HTTP-Endpunkte für Rechnungen samt Mahnungen und Belegabruf.
type InvoiceHandler struct {
	uc        *billing.InvoiceUseCase
	reminders *billing.ReminderUseCase
	docs      *documents.UseCase
}

// NewInvoiceHandler baut den Handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, reminders *billing.ReminderUseCase, docs *documents.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, reminders: reminders, docs: docs}
}

// Create POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.Create(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// Get GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	inv, err := h.uc.Get(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inv)
}

// List GET /api/invoices?status=open&limit=20&offset=0
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListOverdue GET /api/invoices/overdue — Grundlage der Mahnliste.
func (h *InvoiceHandler) ListOverdue(c *fiber.Ctx) error {
	list, err := h.uc.ListOverdue(GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/invoices/:id — nur im Status draft.
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inv)
}

// UpdateStatus PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.UpdateStatus(GetCompanyID(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inv)
}

// Document GET /api/invoices/:id/documents/:format — format: pdf | zugferd | xrechnung.
func (h *InvoiceHandler) Document(c *fiber.Ctx) error {
	refType := ""
	switch c.Params("format") {
	case entity.FormatPDF:
		refType = documents.RefInvoicePDF
	case entity.FormatZUGFeRD:
		refType = documents.RefInvoiceZUGFeRD
	case entity.FormatXRechnung:
		refType = documents.RefInvoiceXRechnung
	default:
		return writeError(c, domain.ErrInvalidInput)
	}
	doc, err := h.docs.Resolve(c.Context(), dto.DocumentRefDTO{Type: refType, ID: c.Params("id")}, "")
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc)
}

// CreateReminder POST /api/invoices/:id/reminders — legt die nächste Mahnstufe an.
func (h *InvoiceHandler) CreateReminder(c *fiber.Ctx) error {
	var in dto.CreateReminderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	rem, err := h.reminders.Create(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rem)
}

// ListReminders GET /api/invoices/:id/reminders
func (h *InvoiceHandler) ListReminders(c *fiber.Ctx) error {
	list, err := h.reminders.List(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
