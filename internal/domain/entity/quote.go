package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status eines Angebots.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
	QuoteStatusInvoiced = "invoiced" // in eine Rechnung überführt
)

// Quote repräsentiert ein Angebot. Nummern dürfen "/" enthalten (z.B. AN-2025/017);
// für Dateinamen wird "/" durch "-" ersetzt.
type Quote struct {
	ID         string
	CompanyID  string
	CustomerID string
	Number     string
	IssueDate  time.Time
	ValidUntil time.Time
	Items      []LineItem
	Discount   *Discount
	Notes      string
	Status     string
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
