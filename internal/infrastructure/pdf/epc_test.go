package pdf_test

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/infrastructure/pdf"
)

// TestEPCPayload_Zeilenlayout: die Girocode-Nutzlast hat ein festes
// 11-Zeilen-Layout; leere optionale Felder bleiben als Leerzeilen stehen.
func TestEPCPayload_Zeilenlayout(t *testing.T) {
	company := testCompany()
	payload := pdf.EPCPayload(company, "RE-2025-0042", dec("1695.5"))

	lines := strings.Split(payload, "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "BCD", lines[0])
	assert.Equal(t, "002", lines[1])
	assert.Equal(t, "1", lines[2])
	assert.Equal(t, "SCT", lines[3])
	assert.Equal(t, "COBADEFFXXX", lines[4])
	assert.Equal(t, "Müller & Söhne GmbH", lines[5])
	assert.Equal(t, "DE89370400440532013000", lines[6])
	assert.Equal(t, "EUR1695.50", lines[7])
	assert.Empty(t, lines[8])
	assert.Empty(t, lines[9])
	assert.Equal(t, "Rechnung RE-2025-0042", lines[10])
}

// TestEPCPayload_NameZeichenweiseGekuerzt: der Empfängername wird auf 70
// Zeichen gekürzt, nicht auf 70 Bytes; ein Umlaut an der Schnittgrenze darf
// kein ungültiges UTF-8 hinterlassen.
func TestEPCPayload_NameZeichenweiseGekuerzt(t *testing.T) {
	company := testCompany()
	company.Name = strings.Repeat("Ä", 80)

	payload := pdf.EPCPayload(company, "RE-1", dec("10"))
	lines := strings.Split(payload, "\n")
	require.True(t, utf8.ValidString(lines[5]), "gekürzter Name muss gültiges UTF-8 bleiben")
	assert.Equal(t, 70, utf8.RuneCountInString(lines[5]))
}

// TestEPCPayload_IBANOhneLeerzeichen: formatiert eingegebene IBANs werden
// für die Nutzlast normalisiert.
func TestEPCPayload_IBANOhneLeerzeichen(t *testing.T) {
	company := testCompany()
	company.IBAN = "DE89 3704 0044 0532 0130 00"

	payload := pdf.EPCPayload(company, "RE-1", dec("10"))
	assert.Contains(t, payload, "\nDE89370400440532013000\n")
}

func TestRevenueReport_Rendert(t *testing.T) {
	data := documents.RevenueReportData{
		Year:         2025,
		InvoiceCount: 14,
		Net:          dec("14000"),
		Tax:          dec("2660"),
		Gross:        dec("16660"),
	}
	for m := 1; m <= 12; m++ {
		data.Months = append(data.Months, documents.RevenueMonth{
			Month: time.Month(m), Net: dec("1000"), Tax: dec("190"), Gross: dec("1190"), Count: 1,
		})
	}
	data.Rates = []documents.RevenueRateTotal{
		{Rate: dec("19"), Taxable: dec("14000"), Tax: dec("2660")},
	}

	out, err := pdf.NewRevenueReport().Generate(t.Context(), data, testCompany())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
