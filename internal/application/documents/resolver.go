package documents

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// Referenztypen für DocumentRefDTO.Type.
const (
	RefAttachment       = "attachment"
	RefInvoicePDF       = "invoice-pdf"
	RefInvoiceZUGFeRD   = "invoice-zugferd"
	RefInvoiceXRechnung = "invoice-xrechnung"
	RefQuotePDF         = "quote-pdf"
	RefJobPDF           = "job-pdf"
	RefReminderPDF      = "reminder-pdf"
)

// ZUGFeRDFilename ist der normierte Name des in ZUGFeRD-PDFs eingebetteten XML.
const ZUGFeRDFilename = "zugferd-invoice.xml"

const (
	contentTypePDF = "application/pdf"
	contentTypeXML = "application/xml"
)

// Deps sind die Abhängigkeiten des Dokumenten-Anwendungsfalls.
type Deps struct {
	CompanyRepo  repository.CompanyRepository
	CustomerRepo repository.CustomerRepository
	InvoiceRepo  repository.InvoiceRepository
	QuoteRepo    repository.QuoteRepository
	JobRepo      repository.JobRepository
	ReminderRepo repository.ReminderRepository
	JournalRepo  repository.JournalRepository

	Renderer       PDFRenderer
	ZUGFeRD        EInvoiceBuilder
	XRechnung      EInvoiceBuilder
	Attacher       Attacher
	Digester       Digester
	ReportRenderer ReportRenderer

	Log        zerolog.Logger
	ExportPace time.Duration
}

// UseCase löst Belegreferenzen auf, verwaltet Vorschauen, exportiert
// Sammel-ZIPs und schreibt das Dokumentenjournal.
type UseCase struct {
	deps     Deps
	log      zerolog.Logger
	previews *PreviewRegistry
}

// NewUseCase baut den Anwendungsfall.
func NewUseCase(deps Deps) *UseCase {
	return &UseCase{
		deps:     deps,
		log:      deps.Log.With().Str("component", "documents").Logger(),
		previews: NewPreviewRegistry(),
	}
}

// Resolve löst die Referenz zu Bytes + Dateiname + Content-Type auf. Mit
// previewToken wird das Ergebnis zusätzlich registriert. Bytes werden erst
// nach vollständigem Erfolg herausgegeben, nie partiell.
func (uc *UseCase) Resolve(ctx context.Context, ref dto.DocumentRefDTO, previewToken string) (*Resolved, error) {
	doc, err := uc.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if previewToken != "" {
		uc.previews.Put(previewToken, doc)
	}
	return doc, nil
}

// Preview liefert das unter dem Token registrierte Dokument.
func (uc *UseCase) Preview(token string) (*Resolved, error) {
	doc, ok := uc.previews.Get(token)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// ReleasePreview gibt die Vorschau-Bytes zum Token frei.
func (uc *UseCase) ReleasePreview(token string) {
	uc.previews.Release(token)
}

func (uc *UseCase) resolve(ctx context.Context, ref dto.DocumentRefDTO) (*Resolved, error) {
	switch ref.Type {
	case RefAttachment:
		return resolveAttachment(ref)
	case RefInvoicePDF:
		return uc.invoiceDocument(ctx, ref.ID, entity.FormatPDF)
	case RefInvoiceZUGFeRD:
		return uc.invoiceDocument(ctx, ref.ID, entity.FormatZUGFeRD)
	case RefInvoiceXRechnung:
		return uc.invoiceDocument(ctx, ref.ID, entity.FormatXRechnung)
	case RefQuotePDF:
		return uc.quoteDocument(ctx, ref.ID)
	case RefJobPDF:
		return uc.jobDocument(ctx, ref.ID)
	case RefReminderPDF:
		return uc.reminderDocument(ctx, ref.ID)
	default:
		return nil, fmt.Errorf("%w: unbekannter referenztyp %q", domain.ErrInvalidInput, ref.Type)
	}
}

func resolveAttachment(ref dto.DocumentRefDTO) (*Resolved, error) {
	if ref.Data == "" || ref.Filename == "" {
		return nil, fmt.Errorf("%w: attachment braucht data und filename", domain.ErrInvalidInput)
	}
	data, err := base64.StdEncoding.DecodeString(ref.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: attachment ist kein gültiges base64", domain.ErrInvalidInput)
	}
	ct := ref.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Resolved{Bytes: data, Filename: SanitizeFilename(ref.Filename), ContentType: ct}, nil
}

// invoiceDocument rendert eine Rechnung im gewünschten Format. ZUGFeRD ist
// das Rechnungs-PDF mit eingebettetem CII-XML; schlägt nur die Einbettung
// fehl, wird gewarnt und das reine PDF geliefert.
func (uc *UseCase) invoiceDocument(ctx context.Context, id string, format string) (*Resolved, error) {
	inv, company, customer, err := uc.loadInvoice(id)
	if err != nil {
		return nil, err
	}

	var doc *Resolved
	switch format {
	case entity.FormatXRechnung:
		xml, err := uc.deps.XRechnung.Build(inv, company, customer)
		if err != nil {
			return nil, fmt.Errorf("%w: xrechnung %s: %v", domain.ErrGeneration, inv.Number, err)
		}
		doc = &Resolved{
			Bytes:       xml,
			Filename:    SanitizeFilename(inv.Number) + "_xrechnung.xml",
			ContentType: contentTypeXML,
		}
	case entity.FormatPDF, entity.FormatZUGFeRD:
		pdfBytes, err := uc.deps.Renderer.Invoice(ctx, inv, company, customer)
		if err != nil {
			return nil, err
		}
		if format == entity.FormatZUGFeRD {
			pdfBytes = uc.embedCII(inv, company, customer, pdfBytes)
		}
		doc = &Resolved{
			Bytes:       pdfBytes,
			Filename:    "Rechnung_" + SanitizeFilename(inv.Number) + ".pdf",
			ContentType: contentTypePDF,
		}
	default:
		return nil, fmt.Errorf("%w: unbekanntes format %q", domain.ErrInvalidInput, format)
	}

	uc.journal(company.ID, entity.DocTypeInvoice, inv.Number, format, doc)
	return doc, nil
}

// embedCII baut das CII-XML und bettet es ein; jede Stufe degradiert mit
// Warnung zum unveränderten PDF.
func (uc *UseCase) embedCII(inv *entity.Invoice, company *entity.Company, customer *entity.Customer, pdfBytes []byte) []byte {
	cii, err := uc.deps.ZUGFeRD.Build(inv, company, customer)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice", inv.Number).Msg("cii-xml nicht erzeugbar, liefere reines pdf")
		return pdfBytes
	}
	embedded, err := uc.deps.Attacher.Attach(pdfBytes, []Attachment{{Filename: ZUGFeRDFilename, Data: cii}})
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice", inv.Number).Msg("einbettung fehlgeschlagen, liefere reines pdf")
		return pdfBytes
	}
	return embedded
}

func (uc *UseCase) quoteDocument(ctx context.Context, id string) (*Resolved, error) {
	company, err := uc.primaryCompany()
	if err != nil {
		return nil, err
	}
	q, err := uc.deps.QuoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != company.ID {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.loadCustomer(q.CustomerID)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.deps.Renderer.Quote(ctx, q, company, customer)
	if err != nil {
		return nil, err
	}
	doc := &Resolved{
		Bytes:       pdfBytes,
		Filename:    SanitizeFilename(q.Number) + ".pdf",
		ContentType: contentTypePDF,
	}
	uc.journal(company.ID, entity.DocTypeQuote, q.Number, entity.FormatPDF, doc)
	return doc, nil
}

func (uc *UseCase) jobDocument(ctx context.Context, id string) (*Resolved, error) {
	company, err := uc.primaryCompany()
	if err != nil {
		return nil, err
	}
	job, err := uc.deps.JobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.CompanyID != company.ID {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.loadCustomer(job.CustomerID)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.deps.Renderer.Job(ctx, job, company, customer)
	if err != nil {
		return nil, err
	}
	doc := &Resolved{
		Bytes:       pdfBytes,
		Filename:    "Auftrag_" + SanitizeFilename(job.Number) + ".pdf",
		ContentType: contentTypePDF,
	}
	uc.journal(company.ID, entity.DocTypeJob, job.Number, entity.FormatPDF, doc)
	return doc, nil
}

func (uc *UseCase) reminderDocument(ctx context.Context, id string) (*Resolved, error) {
	rem, err := uc.deps.ReminderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rem == nil {
		return nil, domain.ErrNotFound
	}
	inv, company, customer, err := uc.loadInvoice(rem.InvoiceID)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := uc.deps.Renderer.Reminder(ctx, rem, inv, company, customer)
	if err != nil {
		return nil, err
	}
	doc := &Resolved{
		Bytes:       pdfBytes,
		Filename:    fmt.Sprintf("Mahnung_%d_%s.pdf", rem.Stage, SanitizeFilename(inv.Number)),
		ContentType: contentTypePDF,
	}
	uc.journal(company.ID, entity.DocTypeReminder, inv.Number, entity.FormatPDF, doc)
	return doc, nil
}

// journal schreibt den Journaleintrag. Ein Journalfehler macht das bereits
// erzeugte Dokument nicht kaputt, er wird nur protokolliert.
func (uc *UseCase) journal(companyID, docType, number, format string, doc *Resolved) {
	digest := ""
	var err error
	if doc.ContentType == contentTypeXML {
		digest, err = uc.deps.Digester.XML(doc.Bytes)
		if err != nil {
			uc.log.Warn().Err(err).Str("number", number).Msg("xml-digest fehlgeschlagen, hashe roh")
			digest = uc.deps.Digester.Raw(doc.Bytes)
		}
	} else {
		digest = uc.deps.Digester.Raw(doc.Bytes)
	}

	rec := &entity.DocumentRecord{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		DocType:     docType,
		DocNumber:   number,
		Format:      format,
		Filename:    doc.Filename,
		SHA256:      digest,
		SizeBytes:   len(doc.Bytes),
		GeneratedAt: time.Now(),
	}
	if err := uc.deps.JournalRepo.Append(rec); err != nil {
		uc.log.Error().Err(err).Str("number", number).Str("format", format).Msg("journaleintrag fehlgeschlagen")
	}
}

// Journal listet die Journaleinträge des Betriebs.
func (uc *UseCase) Journal(limit, offset int) ([]*entity.DocumentRecord, error) {
	company, err := uc.primaryCompany()
	if err != nil {
		return nil, err
	}
	return uc.deps.JournalRepo.ListByCompany(company.ID, limit, offset)
}

// ── Laden ─────────────────────────────────────────────────────────────────────

func (uc *UseCase) primaryCompany() (*entity.Company, error) {
	company, err := uc.deps.CompanyRepo.GetPrimary()
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: betrieb ist noch nicht eingerichtet", domain.ErrConflict)
	}
	return company, nil
}

func (uc *UseCase) loadInvoice(id string) (*entity.Invoice, *entity.Company, *entity.Customer, error) {
	company, err := uc.primaryCompany()
	if err != nil {
		return nil, nil, nil, err
	}
	inv, err := uc.deps.InvoiceRepo.GetByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if inv == nil || inv.CompanyID != company.ID {
		return nil, nil, nil, domain.ErrNotFound
	}
	customer, err := uc.loadCustomer(inv.CustomerID)
	if err != nil {
		return nil, nil, nil, err
	}
	return inv, company, customer, nil
}

func (uc *UseCase) loadCustomer(id string) (*entity.Customer, error) {
	customer, err := uc.deps.CustomerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

// SanitizeFilename ersetzt Pfadtrenner in Belegnummern (AN-2025/017), damit
// Dateinamen und ZIP-Einträge flach bleiben.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	return strings.ReplaceAll(name, "\\", "-")
}
