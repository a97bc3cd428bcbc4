package entity

import "github.com/shopspring/decimal"

// Rabattarten auf Positions- und Belegebene.
const (
	DiscountPercentage = "percentage" // Value = Prozentsatz (0..100)
	DiscountFixed      = "fixed"      // Value = fester Betrag in EUR
)

// Discount beschreibt einen optionalen Rabatt; Type bestimmt die Deutung von Value.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// LineItem ist eine Position einer Rechnung oder eines Angebots.
type LineItem struct {
	ID          string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // Nettopreis je Einheit
	TaxRate     decimal.Decimal // 0, 7 oder 19 (Prozent)
	Discount    *Discount       // nil = kein Positionsrabatt
}
