// Package billing: reine Rechenlogik für Rabatte, Steueraufschlüsselung und
// Belegsummen. Alle Beträge als decimal.Decimal, gerundet wird erst am Ende.

package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// DiscountAmount berechnet den Rabattbetrag auf eine Basis.
// Prozentsätze werden auf 0..100 begrenzt, feste Beträge auf 0..Basis.
// nil, Wert <= 0 oder Basis <= 0 ergeben 0; das Ergebnis ist nie negativ
// und nie größer als die Basis.
func DiscountAmount(base decimal.Decimal, d *entity.Discount) decimal.Decimal {
	if d == nil || d.Value.Sign() <= 0 || base.Sign() <= 0 {
		return decimal.Zero
	}
	switch d.Type {
	case entity.DiscountPercentage:
		pct := d.Value
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		return base.Mul(pct).Div(hundred)
	case entity.DiscountFixed:
		if d.Value.GreaterThan(base) {
			return base
		}
		return d.Value
	default:
		return decimal.Zero
	}
}

// LineDiscount liefert den Rabattbetrag einer Position (Basis Menge × Einzelpreis).
func LineDiscount(it entity.LineItem) decimal.Decimal {
	return DiscountAmount(it.Quantity.Mul(it.UnitPrice), it.Discount)
}

// LineTotal liefert den Positionsbetrag nach Positionsrabatt.
func LineTotal(it entity.LineItem) decimal.Decimal {
	gross := it.Quantity.Mul(it.UnitPrice)
	return gross.Sub(DiscountAmount(gross, it.Discount))
}
