// Package documents löst Belegreferenzen in fertige Dateien auf: Rendern,
// E-Rechnungs-Einbettung, Vorschau-Registry, Sammelexport, Umsatzbericht
// und das Dokumentenjournal.
package documents

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// PDFRenderer rendert die vier Belegarten. Implementiert vom gofpdf-Motor.
type PDFRenderer interface {
	Invoice(ctx context.Context, inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error)
	Quote(ctx context.Context, q *entity.Quote, company *entity.Company, customer *entity.Customer) ([]byte, error)
	Job(ctx context.Context, job *entity.Job, company *entity.Company, customer *entity.Customer) ([]byte, error)
	Reminder(ctx context.Context, rem *entity.Reminder, inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error)
}

// EInvoiceBuilder serialisiert eine Rechnung als XML (UBL bzw. CII).
type EInvoiceBuilder interface {
	Build(inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error)
}

// Attachment ist eine Datei für die PDF-Einbettung.
type Attachment struct {
	Filename string
	Data     []byte
}

// Attacher bettet Dateien in ein PDF ein. Eine fehlschlagende Einbettung
// degradiert zum unveränderten PDF, sie bricht die Generierung nicht ab.
type Attacher interface {
	Attach(pdf []byte, attachments []Attachment) ([]byte, error)
}

// Digester liefert die Journal-Hashes: XML wird vor dem Hashen kanonisiert,
// alles andere roh gehasht.
type Digester interface {
	XML(doc []byte) (string, error)
	Raw(data []byte) string
}

// ReportRenderer rendert den Jahres-Umsatzbericht.
type ReportRenderer interface {
	Generate(ctx context.Context, data RevenueReportData, company *entity.Company) ([]byte, error)
}

// RevenueMonth sind die Summen eines Monats (nur gestellte Rechnungen).
type RevenueMonth struct {
	Month time.Month
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
	Count int
}

// RevenueRateTotal sind die Jahreswerte eines Steuersatzes.
type RevenueRateTotal struct {
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	Tax     decimal.Decimal
}

// RevenueReportData ist die fertig aggregierte Eingabe des Berichts.
type RevenueReportData struct {
	Year         int
	Months       []RevenueMonth
	Rates        []RevenueRateTotal
	Net          decimal.Decimal
	Tax          decimal.Decimal
	Gross        decimal.Decimal
	InvoiceCount int
}
