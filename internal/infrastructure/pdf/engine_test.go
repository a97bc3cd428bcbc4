package pdf_test

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/infrastructure/pdf"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testEngine() *pdf.Engine {
	return pdf.NewEngine(zerolog.Nop(), 2*time.Second)
}

func testCompany() *entity.Company {
	return &entity.Company{
		ID:        "c-1",
		Name:      "Müller & Söhne GmbH",
		Street:    "Hauptstraße 1",
		ZIP:       "10115",
		City:      "Berlin",
		Country:   "DE",
		Email:     "info@mueller-soehne.de",
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
		ID:     "k-1",
		Number: "KD-1001",
		Name:   "Bäckerei Schmidt",
		Street: "Ofenweg 3",
		ZIP:    "04109",
		City:   "Leipzig",
	}
}

func testInvoice(itemCount int) *entity.Invoice {
	inv := &entity.Invoice{
		ID:        "r-1",
		Number:    "RE-2025-0042",
		IssueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC),
		Status:    entity.InvoiceStatusOpen,
		Notes:     "Vielen Dank für Ihren Auftrag.",
	}
	for i := 1; i <= itemCount; i++ {
		inv.Items = append(inv.Items, entity.LineItem{
			Position:    i,
			Description: fmt.Sprintf("Position %d: Wartung der Backstraße inkl. Anfahrt und Kleinteile", i),
			Quantity:    dec("1"),
			UnitPrice:   dec("99.90"),
			TaxRate:     dec("19"),
		})
	}
	return inv
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pageCount zählt die Page-Objekte im PDF. gofpdf schreibt je Seite ein
// "/Type /Page" und genau einmal "/Type /Pages".
func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - 1
}

// contentStreams entpackt die FlateDecode-Streams des PDFs in Dateireihenfolge
// und liefert die Seiteninhalte; erkennbar sind sie an Textblöcken (BT). Setzt
// voraus, dass der Beleg ohne Bildstreams gerendert wurde.
func contentStreams(t *testing.T, data []byte) [][]byte {
	t.Helper()
	var pages [][]byte
	rest := data
	for {
		i := bytes.Index(rest, []byte("stream\n"))
		if i < 0 {
			break
		}
		chunk := rest[i+len("stream\n"):]
		end := bytes.Index(chunk, []byte("endstream"))
		if end < 0 {
			break
		}
		if r, err := zlib.NewReader(bytes.NewReader(chunk[:end])); err == nil {
			if plain, err := io.ReadAll(r); err == nil && bytes.Contains(plain, []byte("BT")) {
				pages = append(pages, plain)
			}
		}
		rest = chunk[end:]
	}
	return pages
}

func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// ── Rechnung ──────────────────────────────────────────────────────────────────

func TestEngine_RechnungEinseitig(t *testing.T) {
	out, err := testEngine().Invoice(context.Background(), testInvoice(3), testCompany(), testCustomer())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "muss ein PDF sein")
	assert.Equal(t, 1, pageCount(out))
}

// TestEngine_RechnungUmbruch: viele Positionen erzwingen Folgeseiten; Kopf
// und Tabellenkopf werden je Seite neu gerendert, die Generierung bricht nicht.
func TestEngine_RechnungUmbruch(t *testing.T) {
	out, err := testEngine().Invoice(context.Background(), testInvoice(60), testCompany(), testCustomer())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, pageCount(out), 2, "60 Positionen passen nicht auf eine Seite")
}

// TestEngine_SeitenkopfIdentisch: der Seitenkopf hängt nur von Beleg, Betrieb
// und Kunde ab und wird auf jeder Folgeseite byteidentisch gerendert; Seite
// eins weicht erst nach dem Titel ab (Einleitung statt Tabellenkopf).
func TestEngine_SeitenkopfIdentisch(t *testing.T) {
	company := testCompany()
	company.IBAN = "" // ohne Girocode-Bildstream sind alle Streams Seiteninhalte

	out, err := testEngine().Invoice(context.Background(), testInvoice(120), company, testCustomer())
	require.NoError(t, err)

	pages := contentStreams(t, out)
	require.GreaterOrEqual(t, len(pages), 3, "120 Positionen brauchen mindestens drei Seiten")

	// Folgeseiten divergieren erst in der ersten Positionszeile: der gemeinsame
	// Präfix reicht über Titel und Tabellenkopf hinaus, der gesamte Kopf davor
	// ist also identisch.
	prefix := commonPrefix(pages[1], pages[2])
	assert.Contains(t, string(prefix), "RE-2025-0042")
	assert.Contains(t, string(prefix), "Beschreibung")

	// Seite eins rendert denselben Kopf bis einschließlich Titel.
	assert.Contains(t, string(commonPrefix(pages[0], pages[1])), "RE-2025-0042")
}

func TestEngine_RechnungMitRabattUndLogo(t *testing.T) {
	company := testCompany()
	company.Logo = tinyPNG(t)
	company.LogoMime = "image/png"

	inv := testInvoice(4)
	inv.Discount = &entity.Discount{Type: entity.DiscountPercentage, Value: dec("10")}
	inv.Items[1].Discount = &entity.Discount{Type: entity.DiscountFixed, Value: dec("5")}

	out, err := testEngine().Invoice(context.Background(), inv, company, testCustomer())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// TestEngine_LogoURLFehlerDegradiert: eine nicht ladbare Logo-URL darf die
// Generierung nicht scheitern lassen (Textkopf als Rückfall).
func TestEngine_LogoURLFehlerDegradiert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	company := testCompany()
	company.LogoURL = srv.URL + "/logo.png"

	out, err := testEngine().Invoice(context.Background(), testInvoice(2), company, testCustomer())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// TestEngine_KleinunternehmerOhneSteuerzeilen: 0 %-Beleg rendert ohne Fehler;
// der Hinweis ersetzt die Steuerzeilen (inhaltlich geprüft in den Emitter-Tests).
func TestEngine_Kleinunternehmer(t *testing.T) {
	company := testCompany()
	company.IsSmallBusiness = true
	inv := testInvoice(2)
	for i := range inv.Items {
		inv.Items[i].TaxRate = decimal.Zero
	}

	out, err := testEngine().Invoice(context.Background(), inv, company, testCustomer())
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(out))
}

// ── Angebot / Auftrag / Mahnung ───────────────────────────────────────────────

func TestEngine_Angebot(t *testing.T) {
	q := &entity.Quote{
		Number:     "AN-2025/017",
		IssueDate:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Items: []entity.LineItem{
			{Position: 1, Description: "Beratung", Quantity: dec("2"), UnitPrice: dec("120"), TaxRate: dec("19")},
		},
		Notes: "Angebot freibleibend.",
	}

	out, err := testEngine().Quote(context.Background(), q, testCompany(), testCustomer())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestEngine_AuftragMitUnterschrift(t *testing.T) {
	job := &entity.Job{
		Number:    "AU-2025-0007",
		Title:     "Ofenrevision Filiale Ost",
		Status:    entity.JobStatusCompleted,
		CreatedAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		TimeEntries: []entity.TimeEntry{
			{Date: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), Description: "Revision", Hours: dec("6.5"), HourlyRate: dec("85"), TaxRate: dec("19")},
		},
		Materials: []entity.Material{
			{Name: "Dichtungssatz", Quantity: dec("1"), UnitPrice: dec("42.50"), TaxRate: dec("19")},
		},
		Signature: &entity.Signature{
			Image:      tinyPNG(t),
			SignerName: "K. Schmidt",
			SignedAt:   time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		},
	}

	out, err := testEngine().Job(context.Background(), job, testCompany(), testCustomer())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestEngine_Mahnung(t *testing.T) {
	inv := testInvoice(2)
	rem := &entity.Reminder{
		InvoiceID: inv.ID,
		Stage:     2,
		Fee:       dec("10"),
		Text:      "Wir bitten um umgehende Begleichung des offenen Betrags.",
		IssueDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC),
	}

	out, err := testEngine().Reminder(context.Background(), rem, inv, testCompany(), testCustomer())
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(out))
}
