package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// RouterDeps Abhängigkeiten für den Router.
type RouterDeps struct {
	CompanyRepo repository.CompanyRepository

	CompanyUC  *billing.CompanyUseCase
	CustomerUC *billing.CustomerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	QuoteUC    *billing.QuoteUseCase
	JobUC      *billing.JobUseCase
	ConvertUC  *billing.ConvertUseCase
	ReminderUC *billing.ReminderUseCase
	DocumentUC *documents.UseCase
}

// Router registriert die Routen der API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Betriebsstammdaten (erreichbar auch vor der Ersteinrichtung)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Get("/company", companyHandler.Get)
	api.Put("/company", companyHandler.Update)

	// Alle belegbezogenen Routen brauchen einen eingerichteten Betrieb.
	protected := api.Group("/", CompanyContext(deps.CompanyRepo))

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ReminderUC, deps.DocumentUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/overdue", invoiceHandler.ListOverdue)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/documents/:format", invoiceHandler.Document)
	invoices.Post("/:id/reminders", invoiceHandler.CreateReminder)
	invoices.Get("/:id/reminders", invoiceHandler.ListReminders)

	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.ConvertUC, deps.DocumentUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.Get)
	quotes.Put("/:id", quoteHandler.Update)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/invoice", quoteHandler.ToInvoice)
	quotes.Get("/:id/documents/pdf", quoteHandler.Document)

	jobs := protected.Group("/jobs")
	jobHandler := NewJobHandler(deps.JobUC, deps.ConvertUC, deps.DocumentUC)
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id", jobHandler.Get)
	jobs.Put("/:id", jobHandler.Update)
	jobs.Patch("/:id/status", jobHandler.UpdateStatus)
	jobs.Post("/:id/signature", jobHandler.Sign)
	jobs.Post("/:id/invoice", jobHandler.ToInvoice)
	jobs.Get("/:id/documents/pdf", jobHandler.Document)

	docs := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	docs.Post("/resolve", documentHandler.Resolve)
	docs.Get("/preview/:token", documentHandler.Preview)
	docs.Delete("/preview/:token", documentHandler.ReleasePreview)
	docs.Post("/export", documentHandler.Export)
	docs.Get("/journal", documentHandler.Journal)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.DocumentUC)
	reports.Get("/revenue/:year", reportHandler.Revenue)
}
