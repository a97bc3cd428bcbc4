package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status einer Rechnung.
const (
	InvoiceStatusDraft     = "draft"     // angelegt, noch nicht gestellt
	InvoiceStatusOpen      = "open"      // gestellt, Zahlung offen
	InvoiceStatusPaid      = "paid"      // bezahlt
	InvoiceStatusCancelled = "cancelled" // storniert
)

// Invoice repräsentiert eine Ausgangsrechnung.
type Invoice struct {
	ID         string
	CompanyID  string
	CustomerID string
	Number     string // vergebene Rechnungsnummer, z.B. RE-2025-0001
	IssueDate  time.Time
	DueDate    time.Time
	Items      []LineItem
	Discount   *Discount // Gesamtrabatt auf den Beleg, nil = keiner
	Notes      string
	Status     string
	// Abgeleitete Summen; werden bei jeder Positionsänderung neu berechnet.
	Subtotal  decimal.Decimal // netto nach allen Rabatten
	TaxAmount decimal.Decimal
	Total     decimal.Decimal // brutto
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overdue meldet, ob die Rechnung offen und das Zahlungsziel überschritten ist.
func (i *Invoice) Overdue(now time.Time) bool {
	return i.Status == InvoiceStatusOpen && now.After(i.DueDate)
}
