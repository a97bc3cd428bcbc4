package einvoice_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/infrastructure/einvoice"
)

// Fixtures: ein Betrieb mit Bankverbindung, ein Kunde, eine Rechnung mit
// gemischten Steuersätzen. Werden von XRechnung- und ZUGFeRD-Tests geteilt.

func testCompany() *entity.Company {
	return &entity.Company{
		ID:        "c-1",
		Name:      "Müller & Söhne GmbH",
		OwnerName: "Hans Müller",
		Street:    "Hauptstraße 1",
		ZIP:       "10115",
		City:      "Berlin",
		Country:   "DE",
		Email:     "info@mueller-soehne.de",
		Phone:     "+49 30 1234567",
		TaxNumber: "12/345/67890",
		VATID:     "DE123456789",
		IBAN:      "DE89370400440532013000",
		BIC:       "COBADEFFXXX",
		BankName:  "Commerzbank",
		Locale:    "de-DE",
	}
}

func testCustomer() *entity.Customer {
	return &entity.Customer{
		ID:        "k-1",
		CompanyID: "c-1",
		Number:    "KD-1001",
		Name:      "Bäckerei Schmidt <Filiale Ost>",
		Street:    "Ofenweg 3",
		ZIP:       "04109",
		City:      "Leipzig",
		Country:   "DE",
		Emails:    []string{"rechnung@schmidt.de"},
	}
}

func testInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:         "r-1",
		CompanyID:  "c-1",
		CustomerID: "k-1",
		Number:     "RE-2025-0042",
		IssueDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC),
		Status:     entity.InvoiceStatusOpen,
		Notes:      "Lieferung frei Haus & montiert",
		Items: []entity.LineItem{
			{Position: 1, Description: "Backofen Typ B<200>", Quantity: dec("1"), UnitPrice: dec("1200"), TaxRate: dec("19")},
			{Position: 2, Description: "Mehl, Sackware", Quantity: dec("10"), UnitPrice: dec("25"), TaxRate: dec("7")},
		},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// parseXML prüft Wohlgeformtheit und liefert das Dokument für Pfadabfragen.
func parseXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data), "dokument muss wohlgeformt sein")
	return doc
}

func textOf(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "element %s fehlt", path)
	return el.Text()
}

// ── XRechnung ─────────────────────────────────────────────────────────────────

func TestXRechnung_KopfUndSummen(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	assert.Equal(t, "RE-2025-0042", textOf(t, doc, "//Invoice/ID"))
	assert.Equal(t, "2025-03-10", textOf(t, doc, "//Invoice/IssueDate"))
	assert.Equal(t, "2025-03-24", textOf(t, doc, "//Invoice/DueDate"))
	assert.Equal(t, "380", textOf(t, doc, "//Invoice/InvoiceTypeCode"))
	assert.Equal(t, "KD-1001", textOf(t, doc, "//Invoice/BuyerReference"))
	assert.Contains(t, textOf(t, doc, "//Invoice/CustomizationID"), "xrechnung_3.0")

	// 1200 + 250 netto; 228 + 17,50 Steuer
	assert.Equal(t, "1450.00", textOf(t, doc, "//LegalMonetaryTotal/LineExtensionAmount"))
	assert.Equal(t, "1450.00", textOf(t, doc, "//LegalMonetaryTotal/TaxExclusiveAmount"))
	assert.Equal(t, "1695.50", textOf(t, doc, "//LegalMonetaryTotal/TaxInclusiveAmount"))
	assert.Equal(t, "245.50", textOf(t, doc, "//TaxTotal/TaxAmount"))
}

// TestXRechnung_ZahlbetragGleichBrutto: PayableAmount und TaxInclusiveAmount
// müssen identisch sein, sonst weisen Prüfdienste das Dokument ab.
func TestXRechnung_ZahlbetragGleichBrutto(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	assert.Equal(t,
		textOf(t, doc, "//LegalMonetaryTotal/TaxInclusiveAmount"),
		textOf(t, doc, "//LegalMonetaryTotal/PayableAmount"))
}

// TestXRechnung_SubtotalsAufsteigend: je Satz > 0 ein TaxSubtotal, 7 % vor 19 %.
func TestXRechnung_SubtotalsAufsteigend(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	subs := doc.FindElements("//TaxTotal/TaxSubtotal")
	require.Len(t, subs, 2)
	assert.Equal(t, "7.00", subs[0].FindElement("TaxCategory/Percent").Text())
	assert.Equal(t, "19.00", subs[1].FindElement("TaxCategory/Percent").Text())
	assert.Equal(t, "250.00", subs[0].FindElement("TaxableAmount").Text())
	assert.Equal(t, "17.50", subs[0].FindElement("TaxAmount").Text())
}

// TestXRechnung_FreitextWirdEscaped: Sonderzeichen aus Kundenname, Position
// und Notizen dürfen das Markup nicht aufbrechen.
func TestXRechnung_FreitextWirdEscaped(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Bäckerei Schmidt &lt;Filiale Ost&gt;")
	assert.Contains(t, s, "Backofen Typ B&lt;200&gt;")
	assert.Contains(t, s, "Lieferung frei Haus &amp; montiert")
	assert.NotContains(t, s, "<Filiale")
	parseXML(t, out)
}

// TestXRechnung_Kleinunternehmer: alle Positionen 0 % ⇒ ein einzelnes
// Subtotal mit Befreiungsgrund nach § 19 UStG und Hinweis als Note.
func TestXRechnung_Kleinunternehmer(t *testing.T) {
	company := testCompany()
	company.IsSmallBusiness = true
	inv := testInvoice()
	for i := range inv.Items {
		inv.Items[i].TaxRate = decimal.Zero
	}

	out, err := einvoice.NewXRechnungBuilder().Build(inv, company, testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	subs := doc.FindElements("//TaxTotal/TaxSubtotal")
	require.Len(t, subs, 1)
	assert.Equal(t, "E", subs[0].FindElement("TaxCategory/ID").Text())
	assert.Contains(t, subs[0].FindElement("TaxCategory/TaxExemptionReason").Text(), "§ 19 UStG")
	assert.Equal(t, "0.00", textOf(t, doc, "//TaxTotal/TaxAmount"))
	assert.Contains(t, string(out), "§ 19 UStG")
}

// TestXRechnung_ReverseCharge: 0 %-Belege ohne Kleinunternehmerregelung
// tragen Kategorie AE und den § 13b-Hinweis.
func TestXRechnung_ReverseCharge(t *testing.T) {
	inv := testInvoice()
	for i := range inv.Items {
		inv.Items[i].TaxRate = decimal.Zero
	}

	out, err := einvoice.NewXRechnungBuilder().Build(inv, testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	subs := doc.FindElements("//TaxTotal/TaxSubtotal")
	require.Len(t, subs, 1)
	assert.Equal(t, "AE", subs[0].FindElement("TaxCategory/ID").Text())
	assert.Contains(t, string(out), "§ 13b UStG")
}

// TestXRechnung_GesamtrabattAlsAllowance: der Gesamtrabatt erscheint je Satz
// als AllowanceCharge, und die fünf Summenbeträge bleiben konsistent.
func TestXRechnung_GesamtrabattAlsAllowance(t *testing.T) {
	inv := testInvoice()
	inv.Discount = &entity.Discount{Type: entity.DiscountPercentage, Value: dec("10")}

	out, err := einvoice.NewXRechnungBuilder().Build(inv, testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	allowances := doc.FindElements("//Invoice/AllowanceCharge")
	require.Len(t, allowances, 2, "ein Nachlass je Steuersatz")
	for _, ac := range allowances {
		assert.Equal(t, "false", ac.FindElement("ChargeIndicator").Text())
	}

	assert.Equal(t, "145.00", textOf(t, doc, "//LegalMonetaryTotal/AllowanceTotalAmount"))
	assert.Equal(t, "1450.00", textOf(t, doc, "//LegalMonetaryTotal/LineExtensionAmount"))
	assert.Equal(t, "1305.00", textOf(t, doc, "//LegalMonetaryTotal/TaxExclusiveAmount"))
}

// TestXRechnung_Bankverbindung: IBAN vorhanden ⇒ SEPA-Zahlweg 58 samt BIC.
func TestXRechnung_Bankverbindung(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	assert.Equal(t, "58", textOf(t, doc, "//PaymentMeans/PaymentMeansCode"))
	assert.Equal(t, "DE89370400440532013000", textOf(t, doc, "//PayeeFinancialAccount/ID"))
	assert.Equal(t, "COBADEFFXXX", textOf(t, doc, "//FinancialInstitutionBranch/ID"))

	company := testCompany()
	company.IBAN = ""
	out, err = einvoice.NewXRechnungBuilder().Build(testInvoice(), company, testCustomer())
	require.NoError(t, err)
	assert.Nil(t, parseXML(t, out).FindElement("//PaymentMeans"))
}

func TestXRechnung_Positionen(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)

	doc := parseXML(t, out)
	lines := doc.FindElements("//InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].FindElement("ID").Text())
	assert.Equal(t, "1200.00", lines[0].FindElement("LineExtensionAmount").Text())
	assert.Equal(t, "10.00", lines[1].FindElement("InvoicedQuantity").Text())
	assert.Equal(t, "25.00", lines[1].FindElement("Price/PriceAmount").Text())
}

func TestXRechnung_FehlendeEingaben(t *testing.T) {
	b := einvoice.NewXRechnungBuilder()
	_, err := b.Build(nil, testCompany(), testCustomer())
	assert.Error(t, err)
	_, err = b.Build(testInvoice(), nil, testCustomer())
	assert.Error(t, err)
	_, err = b.Build(testInvoice(), testCompany(), nil)
	assert.Error(t, err)
}

// TestXRechnung_BuyerReferenceFallback: ohne Kundennummer dient die
// Rechnungsnummer als BuyerReference (Pflichtfeld).
func TestXRechnung_BuyerReferenceFallback(t *testing.T) {
	customer := testCustomer()
	customer.Number = ""

	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), customer)
	require.NoError(t, err)
	assert.Equal(t, "RE-2025-0042", textOf(t, parseXML(t, out), "//Invoice/BuyerReference"))
}

func TestXRechnung_XMLDeklaration(t *testing.T) {
	out, err := einvoice.NewXRechnungBuilder().Build(testInvoice(), testCompany(), testCustomer())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
}
