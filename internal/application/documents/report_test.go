package documents_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

func jahrRechnung(month time.Month, status string, items ...entity.LineItem) *entity.Invoice {
	return &entity.Invoice{
		ID:         "inv-" + month.String(),
		CompanyID:  "co-1",
		CustomerID: "cu-1",
		Number:     "RE-2025-" + month.String(),
		IssueDate:  time.Date(2025, month, 5, 0, 0, 0, 0, time.UTC),
		Status:     status,
		Items:      items,
	}
}

// TestRevenue_Aggregation: gestellte Rechnungen werden je Monat und je
// Steuersatz verdichtet, Entwürfe und Stornos zählen nicht mit.
func TestRevenue_Aggregation(t *testing.T) {
	f := newFixture()
	f.invoices.byYear = []*entity.Invoice{
		jahrRechnung(time.January, entity.InvoiceStatusOpen,
			entity.LineItem{Description: "Montage", Quantity: dec("1"), UnitPrice: dec("1000"), TaxRate: dec("19")}),
		jahrRechnung(time.January, entity.InvoiceStatusPaid,
			entity.LineItem{Description: "Bücher", Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("7")}),
		jahrRechnung(time.March, entity.InvoiceStatusPaid,
			entity.LineItem{Description: "Wartung", Quantity: dec("2"), UnitPrice: dec("250"), TaxRate: dec("19")}),
		jahrRechnung(time.June, entity.InvoiceStatusDraft,
			entity.LineItem{Description: "Entwurf", Quantity: dec("1"), UnitPrice: dec("9999"), TaxRate: dec("19")}),
		jahrRechnung(time.June, entity.InvoiceStatusCancelled,
			entity.LineItem{Description: "Storno", Quantity: dec("1"), UnitPrice: dec("9999"), TaxRate: dec("19")}),
	}

	out, err := f.uc.Revenue(t.Context(), 2025)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF report"), out)

	data := f.reporter.data
	assert.Equal(t, 2025, data.Year)
	assert.Equal(t, 3, data.InvoiceCount)
	assert.True(t, data.Net.Equal(dec("1600")), "Netto, war %s", data.Net)
	assert.True(t, data.Tax.Equal(dec("292")), "Steuer, war %s", data.Tax)
	assert.True(t, data.Gross.Equal(dec("1892")), "Brutto, war %s", data.Gross)

	// Alle zwölf Monate sind vertreten, leere mit Nullwerten.
	require.Len(t, data.Months, 12)
	jan := data.Months[0]
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, 2, jan.Count)
	assert.True(t, jan.Net.Equal(dec("1100")), "Januar netto, war %s", jan.Net)
	assert.True(t, jan.Tax.Equal(dec("197")), "Januar steuer, war %s", jan.Tax)
	juni := data.Months[5]
	assert.Equal(t, time.June, juni.Month)
	assert.Zero(t, juni.Count)
	assert.True(t, juni.Gross.IsZero(), "Juni ohne gestellte Rechnungen")

	// Satzsummen aufsteigend: 7 % vor 19 %.
	require.Len(t, data.Rates, 2)
	assert.True(t, data.Rates[0].Rate.Equal(dec("7")))
	assert.True(t, data.Rates[0].Taxable.Equal(dec("100")))
	assert.True(t, data.Rates[0].Tax.Equal(dec("7")))
	assert.True(t, data.Rates[1].Rate.Equal(dec("19")))
	assert.True(t, data.Rates[1].Taxable.Equal(dec("1500")))
	assert.True(t, data.Rates[1].Tax.Equal(dec("285")))
}

// TestRevenue_LeeresJahr: ein Jahr ohne Rechnungen ergibt trotzdem einen
// Bericht mit zwölf Nullmonaten.
func TestRevenue_LeeresJahr(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Revenue(t.Context(), 2025)
	require.NoError(t, err)

	data := f.reporter.data
	assert.Zero(t, data.InvoiceCount)
	require.Len(t, data.Months, 12)
	assert.Empty(t, data.Rates)
	assert.True(t, data.Gross.IsZero())
}

func TestRevenue_UngueltigesJahr(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Revenue(t.Context(), 1887)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestRevenue_BerichtNichtImJournal: der Umsatzbericht ist ein internes
// Dokument und erzeugt keinen Journaleintrag.
func TestRevenue_BerichtNichtImJournal(t *testing.T) {
	f := newFixture()
	f.invoices.byYear = []*entity.Invoice{
		jahrRechnung(time.April, entity.InvoiceStatusPaid,
			entity.LineItem{Description: "Montage", Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("19")}),
	}

	_, err := f.uc.Revenue(t.Context(), 2025)
	require.NoError(t, err)
	assert.Empty(t, f.journal.records)
}
