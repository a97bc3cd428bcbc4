package entity

import "time"

// Belegarten.
const (
	DocTypeInvoice  = "invoice"
	DocTypeQuote    = "quote"
	DocTypeJob      = "job"
	DocTypeReminder = "reminder"
)

// Ausgabeformate für Rechnungen.
const (
	FormatPDF       = "pdf"
	FormatZUGFeRD   = "zugferd"   // PDF mit eingebettetem CII-XML
	FormatXRechnung = "xrechnung" // reines UBL-XML
)

// DocumentRecord ist ein Journaleintrag über ein erzeugtes Dokument (GoBD).
// Einträge werden nie geändert oder gelöscht.
type DocumentRecord struct {
	ID          string
	CompanyID   string
	DocType     string
	DocNumber   string
	Format      string
	Filename    string
	SHA256      string // Hex; XML wird vor dem Hashen kanonisiert, PDF roh gehasht
	SizeBytes   int
	GeneratedAt time.Time
}
