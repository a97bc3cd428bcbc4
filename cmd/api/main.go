package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/infrastructure/einvoice"
	infrapdf "github.com/jnamyslo/belego-api/internal/infrastructure/pdf"
	"github.com/jnamyslo/belego-api/internal/infrastructure/postgres"
	httpRouter "github.com/jnamyslo/belego-api/internal/interfaces/http"
	"github.com/jnamyslo/belego-api/pkg/config"
	"github.com/jnamyslo/belego-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("konfiguration laden: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("anwendung startet")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("verbindung zu PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	reminderRepo := postgres.NewReminderRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := billing.NewCompanyUseCase(companyRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, customerRepo, companyRepo, reminderRepo)
	quoteUC := billing.NewQuoteUseCase(txRunner, quoteRepo, customerRepo, companyRepo)
	jobUC := billing.NewJobUseCase(txRunner, jobRepo, customerRepo)
	convertUC := billing.NewConvertUseCase(txRunner, quoteRepo, jobRepo, customerRepo)
	reminderUC := billing.NewReminderUseCase(txRunner, invoiceRepo, reminderRepo, companyRepo)

	// Dokumenterzeugung: gofpdf-Motor, UBL/CII-Emitter, pdfcpu-Einbettung.
	renderer := infrapdf.NewEngine(log.Zerolog(), time.Duration(cfg.PDF.LogoTimeoutSeconds)*time.Second)
	var attacher documents.Attacher = einvoice.NewPdfcpuAttacher()
	if !cfg.PDF.EmbedAttachments {
		attacher = einvoice.NewNoopAttacher(log.Zerolog())
	}
	documentUC := documents.NewUseCase(documents.Deps{
		CompanyRepo:    companyRepo,
		CustomerRepo:   customerRepo,
		InvoiceRepo:    invoiceRepo,
		QuoteRepo:      quoteRepo,
		JobRepo:        jobRepo,
		ReminderRepo:   reminderRepo,
		JournalRepo:    journalRepo,
		Renderer:       renderer,
		ZUGFeRD:        einvoice.NewZUGFeRDBuilder(),
		XRechnung:      einvoice.NewXRechnungBuilder(),
		Attacher:       attacher,
		Digester:       einvoice.NewDigests(),
		ReportRenderer: infrapdf.NewRevenueReport(),
		Log:            log.Zerolog(),
		ExportPace:     time.Duration(cfg.Export.PaceMillis) * time.Millisecond,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI lokal: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Belego API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyRepo: companyRepo,
		CompanyUC:   companyUC,
		CustomerUC:  customerUC,
		InvoiceUC:   invoiceUC,
		QuoteUC:     quoteUC,
		JobUC:       jobUC,
		ConvertUC:   convertUC,
		ReminderUC:  reminderUC,
		DocumentUC:  documentUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP-server beendet")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown-signal empfangen, server wird beendet...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server-shutdown")
	}

	log.Info().Msg("anwendung beendet")
}
