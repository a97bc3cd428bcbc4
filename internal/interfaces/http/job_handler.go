package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/application/dto"
)

// JobHandler HTTP-Endpunkte für Aufträge.
type JobHandler struct {
	uc      *billing.JobUseCase
	convert *billing.ConvertUseCase
	docs    *documents.UseCase
}

// NewJobHandler baut den Handler.
func NewJobHandler(uc *billing.JobUseCase, convert *billing.ConvertUseCase, docs *documents.UseCase) *JobHandler {
	return &JobHandler{uc: uc, convert: convert, docs: docs}
}

// Create POST /api/jobs
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	job, err := h.uc.Create(c.Context(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// Get GET /api/jobs/:id
func (h *JobHandler) Get(c *fiber.Ctx) error {
	job, err := h.uc.Get(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

// List GET /api/jobs?status=in-progress&limit=20&offset=0
func (h *JobHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/jobs/:id — abgerechnete Aufträge sind unveränderlich.
func (h *JobHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	job, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

// UpdateStatus PATCH /api/jobs/:id/status
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	job, err := h.uc.UpdateStatus(GetCompanyID(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

// Sign POST /api/jobs/:id/signature — hinterlegt die Abnahme-Unterschrift.
func (h *JobHandler) Sign(c *fiber.Ctx) error {
	var in dto.SignatureRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	job, err := h.uc.Sign(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

// ToInvoice POST /api/jobs/:id/invoice — rechnet den Auftrag ab.
func (h *JobHandler) ToInvoice(c *fiber.Ctx) error {
	inv, err := h.convert.JobToInvoice(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// Document GET /api/jobs/:id/documents/pdf
func (h *JobHandler) Document(c *fiber.Ctx) error {
	doc, err := h.docs.Resolve(c.Context(), dto.DocumentRefDTO{Type: documents.RefJobPDF, ID: c.Params("id")}, "")
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, doc)
}
