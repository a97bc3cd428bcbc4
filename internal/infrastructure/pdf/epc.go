package pdf

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// EPCPayload baut die Girocode-Nutzlast (EPC069-12, Version 002) für eine
// SEPA-Überweisung. Zeilenreihenfolge ist fest vorgegeben; leere optionale
// Felder bleiben als Leerzeilen erhalten.
func EPCPayload(company *entity.Company, number string, amount decimal.Decimal) string {
	lines := []string{
		"BCD",                       // Service Tag
		"002",                       // Version
		"1",                         // Zeichensatz UTF-8
		"SCT",                       // SEPA Credit Transfer
		company.BIC,                 // optional ab Version 002
		truncate(company.Name, 70),  // Zahlungsempfänger
		strings.ReplaceAll(company.IBAN, " ", ""),
		"EUR" + amount.Round(2).StringFixed(2),
		"",                          // Purpose
		"",                          // strukturierte Referenz
		truncate("Rechnung "+number, 140), // Verwendungszweck
	}
	return strings.Join(lines, "\n")
}

// paymentQR rendert die EPC-Nutzlast als PNG für den Beleg. Fehler führen
// nur zum Weglassen des QR-Blocks, nie zum Abbruch der Generierung.
func paymentQR(company *entity.Company, number string, amount decimal.Decimal) ([]byte, error) {
	png, err := qrcode.Encode(EPCPayload(company, number, amount), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("girocode erzeugen: %w", err)
	}
	return png, nil
}

// truncate kürzt zeichenweise; die EPC-Feldlängen zählen Zeichen, ein Schnitt
// mitten im Umlaut würde ungültiges UTF-8 erzeugen.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
