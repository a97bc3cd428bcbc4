package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status eines Auftrags. Übergänge nur vorwärts; "invoiced" ist endgültig.
const (
	JobStatusDraft      = "draft"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusInvoiced   = "invoiced"
)

// TimeEntry ist eine erfasste Arbeitszeit innerhalb eines Auftrags.
type TimeEntry struct {
	ID          string
	Date        time.Time
	Description string
	Hours       decimal.Decimal
	HourlyRate  decimal.Decimal // Nettosatz je Stunde
	TaxRate     decimal.Decimal
}

// Material ist verbrauchtes Material innerhalb eines Auftrags.
type Material struct {
	ID        string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
}

// Signature ist die Kundenunterschrift bei Abnahme (PNG aus dem Unterschriftenfeld).
type Signature struct {
	Image      []byte
	SignerName string
	SignedAt   time.Time
}

// Job repräsentiert einen Auftrag mit Arbeitszeiten und Material.
type Job struct {
	ID          string
	CompanyID   string
	CustomerID  string
	Number      string // z.B. AU-2025-0001
	Title       string
	Description string
	Status      string
	TimeEntries []TimeEntry
	Materials   []Material
	Signature   *Signature // nil = noch nicht abgenommen
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
