package documents_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Repo-Fakes (nur die vom Anwendungsfall genutzten Methoden sind belebt) ────

type fakeCompanyRepo struct{ company *entity.Company }

func (f *fakeCompanyRepo) Create(*entity.Company) error                { return nil }
func (f *fakeCompanyRepo) GetPrimary() (*entity.Company, error)        { return f.company, nil }
func (f *fakeCompanyRepo) GetByID(string) (*entity.Company, error)     { return f.company, nil }
func (f *fakeCompanyRepo) Update(*entity.Company) error                { return nil }

type fakeCustomerRepo struct{ customers map[string]*entity.Customer }

func (f *fakeCustomerRepo) Create(*entity.Customer) error { return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}
func (f *fakeCustomerRepo) ListByCompany(string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(*entity.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(string) error           { return nil }

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	byYear   []*entity.Invoice
}

func (f *fakeInvoiceRepo) Create(*entity.Invoice) error { return nil }
func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return f.invoices[id], nil
}
func (f *fakeInvoiceRepo) ListByCompany(string, string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}
func (f *fakeInvoiceRepo) ListOverdue(string, time.Time) ([]*entity.Invoice, error) {
	return nil, nil
}
func (f *fakeInvoiceRepo) ListByIssueYear(string, int) ([]*entity.Invoice, error) {
	return f.byYear, nil
}
func (f *fakeInvoiceRepo) Update(*entity.Invoice) error      { return nil }
func (f *fakeInvoiceRepo) UpdateStatus(string, string) error { return nil }

type fakeQuoteRepo struct{ quotes map[string]*entity.Quote }

func (f *fakeQuoteRepo) Create(*entity.Quote) error                { return nil }
func (f *fakeQuoteRepo) GetByID(id string) (*entity.Quote, error)  { return f.quotes[id], nil }
func (f *fakeQuoteRepo) ListByCompany(string, string, int, int) ([]*entity.Quote, error) {
	return nil, nil
}
func (f *fakeQuoteRepo) Update(*entity.Quote) error      { return nil }
func (f *fakeQuoteRepo) UpdateStatus(string, string) error { return nil }

type fakeJobRepo struct{ jobs map[string]*entity.Job }

func (f *fakeJobRepo) Create(*entity.Job) error               { return nil }
func (f *fakeJobRepo) GetByID(id string) (*entity.Job, error) { return f.jobs[id], nil }
func (f *fakeJobRepo) ListByCompany(string, string, int, int) ([]*entity.Job, error) {
	return nil, nil
}
func (f *fakeJobRepo) Update(*entity.Job) error                  { return nil }
func (f *fakeJobRepo) UpdateStatus(string, string) error         { return nil }
func (f *fakeJobRepo) SetSignature(string, *entity.Signature) error { return nil }

type fakeReminderRepo struct{ reminders map[string]*entity.Reminder }

func (f *fakeReminderRepo) Create(*entity.Reminder) error { return nil }
func (f *fakeReminderRepo) GetByID(id string) (*entity.Reminder, error) {
	return f.reminders[id], nil
}
func (f *fakeReminderRepo) ListByInvoice(string) ([]*entity.Reminder, error) { return nil, nil }
func (f *fakeReminderRepo) MaxStage(string) (int, error)                     { return 0, nil }

type fakeJournalRepo struct{ records []*entity.DocumentRecord }

func (f *fakeJournalRepo) Append(rec *entity.DocumentRecord) error {
	f.records = append(f.records, rec)
	return nil
}
func (f *fakeJournalRepo) ListByCompany(string, int, int) ([]*entity.DocumentRecord, error) {
	return f.records, nil
}

// ── Port-Fakes ────────────────────────────────────────────────────────────────

type fakeRenderer struct{ err error }

func (f *fakeRenderer) Invoice(_ context.Context, inv *entity.Invoice, _ *entity.Company, _ *entity.Customer) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF invoice " + inv.Number), nil
}
func (f *fakeRenderer) Quote(_ context.Context, q *entity.Quote, _ *entity.Company, _ *entity.Customer) ([]byte, error) {
	return []byte("%PDF quote " + q.Number), nil
}
func (f *fakeRenderer) Job(_ context.Context, job *entity.Job, _ *entity.Company, _ *entity.Customer) ([]byte, error) {
	return []byte("%PDF job " + job.Number), nil
}
func (f *fakeRenderer) Reminder(_ context.Context, rem *entity.Reminder, inv *entity.Invoice, _ *entity.Company, _ *entity.Customer) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF reminder %d %s", rem.Stage, inv.Number)), nil
}

type fakeBuilder struct {
	payload []byte
	err     error
}

func (f *fakeBuilder) Build(*entity.Invoice, *entity.Company, *entity.Customer) ([]byte, error) {
	return f.payload, f.err
}

type fakeAttacher struct {
	err       error
	called    int
	filenames []string
}

func (f *fakeAttacher) Attach(pdf []byte, attachments []documents.Attachment) ([]byte, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	out := append([]byte(nil), pdf...)
	for _, a := range attachments {
		f.filenames = append(f.filenames, a.Filename)
		out = append(out, a.Data...)
	}
	return out, nil
}

type fakeDigester struct{}

func (fakeDigester) XML([]byte) (string, error) { return "xml-digest", nil }
func (fakeDigester) Raw([]byte) string          { return "raw-digest" }

type fakeReportRenderer struct{ data documents.RevenueReportData }

func (f *fakeReportRenderer) Generate(_ context.Context, data documents.RevenueReportData, _ *entity.Company) ([]byte, error) {
	f.data = data
	return []byte("%PDF report"), nil
}

var errKaputt = errors.New("kaputt")

// ── Fixtures ──────────────────────────────────────────────────────────────────

type fixture struct {
	companies *fakeCompanyRepo
	customers *fakeCustomerRepo
	invoices  *fakeInvoiceRepo
	quotes    *fakeQuoteRepo
	jobs      *fakeJobRepo
	reminders *fakeReminderRepo
	journal   *fakeJournalRepo
	renderer  *fakeRenderer
	zugferd   *fakeBuilder
	xrechnung *fakeBuilder
	attacher  *fakeAttacher
	reporter  *fakeReportRenderer
	uc        *documents.UseCase
}

func newFixture() *fixture {
	company := &entity.Company{
		ID:   "co-1",
		Name: "Müller & Söhne GmbH",
		IBAN: "DE89370400440532013000",
	}
	customer := &entity.Customer{ID: "cu-1", CompanyID: "co-1", Name: "Beispiel AG"}

	f := &fixture{
		companies: &fakeCompanyRepo{company: company},
		customers: &fakeCustomerRepo{customers: map[string]*entity.Customer{"cu-1": customer}},
		invoices:  &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{}},
		quotes:    &fakeQuoteRepo{quotes: map[string]*entity.Quote{}},
		jobs:      &fakeJobRepo{jobs: map[string]*entity.Job{}},
		reminders: &fakeReminderRepo{reminders: map[string]*entity.Reminder{}},
		journal:   &fakeJournalRepo{},
		renderer:  &fakeRenderer{},
		zugferd:   &fakeBuilder{payload: []byte("<cii/>")},
		xrechnung: &fakeBuilder{payload: []byte("<ubl/>")},
		attacher:  &fakeAttacher{},
		reporter:  &fakeReportRenderer{},
	}
	f.uc = documents.NewUseCase(documents.Deps{
		CompanyRepo:    f.companies,
		CustomerRepo:   f.customers,
		InvoiceRepo:    f.invoices,
		QuoteRepo:      f.quotes,
		JobRepo:        f.jobs,
		ReminderRepo:   f.reminders,
		JournalRepo:    f.journal,
		Renderer:       f.renderer,
		ZUGFeRD:        f.zugferd,
		XRechnung:      f.xrechnung,
		Attacher:       f.attacher,
		Digester:       fakeDigester{},
		ReportRenderer: f.reporter,
		Log:            zerolog.Nop(),
	})
	return f
}

func (f *fixture) addInvoice(id, number string) *entity.Invoice {
	inv := &entity.Invoice{
		ID:         id,
		CompanyID:  "co-1",
		CustomerID: "cu-1",
		Number:     number,
		IssueDate:  time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC),
		Status:     entity.InvoiceStatusOpen,
		Items: []entity.LineItem{
			{Position: 1, Description: "Montagearbeiten", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("19")},
		},
	}
	f.invoices.invoices[id] = inv
	return inv
}
