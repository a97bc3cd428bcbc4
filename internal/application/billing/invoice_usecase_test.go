package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeInvoiceRepo struct{ invoices map[string]*entity.Invoice }

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error { f.invoices[inv.ID] = inv; return nil }
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
	return nil, nil
}
func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error { f.invoices[inv.ID] = inv; return nil }
func (f *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	f.invoices[id].Status = status
	return nil
}

type fakeCustomerRepo struct{ customers map[string]*entity.Customer }

func (f *fakeCustomerRepo) Create(c *entity.Customer) error { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}
func (f *fakeCustomerRepo) ListByCompany(string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(c *entity.Customer) error { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) Delete(id string) error          { delete(f.customers, id); return nil }

type fakeCompanyRepo struct{ company *entity.Company }

func (f *fakeCompanyRepo) Create(*entity.Company) error         { return nil }
func (f *fakeCompanyRepo) GetPrimary() (*entity.Company, error) { return f.company, nil }
func (f *fakeCompanyRepo) GetByID(string) (*entity.Company, error) {
	return f.company, nil
}
func (f *fakeCompanyRepo) Update(*entity.Company) error { return nil }

type fakeReminderRepo struct{}

func (fakeReminderRepo) Create(*entity.Reminder) error                    { return nil }
func (fakeReminderRepo) GetByID(string) (*entity.Reminder, error)         { return nil, nil }
func (fakeReminderRepo) ListByInvoice(string) ([]*entity.Reminder, error) { return nil, nil }
func (fakeReminderRepo) MaxStage(string) (int, error)                     { return 0, nil }

type invoiceFixture struct {
	uc       *billing.InvoiceUseCase
	invoices *fakeInvoiceRepo
}

// newInvoiceFixture baut den Anwendungsfall mit Betrieb co-1, Kunde cu-1 und
// einer Entwurfsrechnung inv-1. Der TxRunner bleibt nil, Update läuft ohne Tx.
func newInvoiceFixture() *invoiceFixture {
	invoices := &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{
		"inv-1": {
			ID:         "inv-1",
			CompanyID:  "co-1",
			CustomerID: "cu-1",
			Number:     "RE-2025-0042",
			IssueDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC),
			Status:     entity.InvoiceStatusDraft,
			Items: []entity.LineItem{
				{Position: 1, Description: "Wartung", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("19")},
			},
		},
	}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cu-1": {ID: "cu-1", CompanyID: "co-1", Name: "Bäckerei Schmidt"},
	}}
	company := &fakeCompanyRepo{company: &entity.Company{ID: "co-1", Name: "Müller & Söhne GmbH"}}

	return &invoiceFixture{
		uc:       billing.NewInvoiceUseCase(nil, invoices, customers, company, fakeReminderRepo{}),
		invoices: invoices,
	}
}

func updateRequest() dto.UpdateInvoiceRequest {
	return dto.UpdateInvoiceRequest{
		CustomerID: "cu-1",
		IssueDate:  "2025-03-10",
		DueDate:    "2025-04-10",
		Items: []dto.LineItemRequest{
			{Description: "Wartung und Ersatzteile", Quantity: dec("2"), UnitPrice: dec("110"), TaxRate: dec("19")},
		},
	}
}

// TestInvoiceUpdate_Aktualisiert: ein Entwurf ist vollständig überschreibbar,
// die Summen werden neu berechnet, die Nummer bleibt.
func TestInvoiceUpdate_Aktualisiert(t *testing.T) {
	f := newInvoiceFixture()

	out, err := f.uc.Update("co-1", "inv-1", updateRequest())
	require.NoError(t, err)

	assert.Equal(t, "RE-2025-0042", out.Number)
	assert.True(t, out.Total.Equal(dec("261.80")), "2 × 110 zzgl. 19 %% USt, war %s", out.Total)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), f.invoices.invoices["inv-1"].DueDate)
}

// TestInvoiceUpdate_FaelligkeitVorRechnungsdatum: wie beim Anlegen darf das
// Zahlungsziel auch beim Überschreiben nicht vor dem Rechnungsdatum liegen.
func TestInvoiceUpdate_FaelligkeitVorRechnungsdatum(t *testing.T) {
	f := newInvoiceFixture()

	in := updateRequest()
	in.DueDate = "2025-03-01"

	_, err := f.uc.Update("co-1", "inv-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), f.invoices.invoices["inv-1"].DueDate,
		"abgelehnte Änderung darf nichts persistieren")
}

// TestInvoiceUpdate_GestellteUnveraenderlich: ab Status open ist die Rechnung
// unveränderlich, Korrekturen laufen über Storno.
func TestInvoiceUpdate_GestellteUnveraenderlich(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.invoices["inv-1"].Status = entity.InvoiceStatusOpen

	_, err := f.uc.Update("co-1", "inv-1", updateRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
}
