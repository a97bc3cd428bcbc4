package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// TaxBucket fasst alle Positionen eines Steuersatzes zusammen.
type TaxBucket struct {
	Rate    decimal.Decimal // Prozent, z.B. 19
	Taxable decimal.Decimal // Bemessungsgrundlage nach anteiligem Gesamtrabatt
	Tax     decimal.Decimal
}

// Totals sind die Summen eines Belegs. Alle Beträge auf Cent gerundet.
//
// Subtotal ist LineExtension − GlobalDiscount; die Summe der Bucket-
// Bemessungsgrundlagen kann davon bei mehreren Steuersätzen um einen Cent
// abweichen (anteilige Verteilung, je Satz gerundet).
type Totals struct {
	LineExtension  decimal.Decimal // Summe der Positionsbeträge nach Positionsrabatten
	GlobalDiscount decimal.Decimal // tatsächlich angewandter Gesamtrabatt
	Subtotal       decimal.Decimal // netto nach allen Rabatten
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal // brutto
	Buckets        []TaxBucket     // aufsteigend nach Satz, inkl. 0 %
}

// Calculate berechnet die Belegsummen und die Steueraufschlüsselung je Satz.
//
// Ein Gesamtrabatt wird anteilig auf alle Steuersätze verteilt: jede
// Bemessungsgrundlage wird mit (1 − Rabatt/Netto-Zwischensumme) skaliert und
// die Steuer daraus neu berechnet. Bei Zwischensumme 0 entfällt die Verteilung.
func Calculate(items []entity.LineItem, global *entity.Discount) Totals {
	lineExt := decimal.Zero
	byRate := make(map[string]*TaxBucket)
	for _, it := range items {
		lt := LineTotal(it)
		lineExt = lineExt.Add(lt)
		key := it.TaxRate.String()
		b, ok := byRate[key]
		if !ok {
			b = &TaxBucket{Rate: it.TaxRate, Taxable: decimal.Zero, Tax: decimal.Zero}
			byRate[key] = b
		}
		b.Taxable = b.Taxable.Add(lt)
	}

	gd := DiscountAmount(lineExt, global)
	factor := decimal.NewFromInt(1)
	if gd.Sign() > 0 && lineExt.Sign() > 0 {
		factor = lineExt.Sub(gd).Div(lineExt)
	}

	buckets := make([]TaxBucket, 0, len(byRate))
	taxTotal := decimal.Zero
	for _, b := range byRate {
		taxable := b.Taxable.Mul(factor).Round(2)
		tax := taxable.Mul(b.Rate).Div(hundred).Round(2)
		taxTotal = taxTotal.Add(tax)
		buckets = append(buckets, TaxBucket{Rate: b.Rate, Taxable: taxable, Tax: tax})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Rate.LessThan(buckets[j].Rate) })

	subtotal := lineExt.Round(2).Sub(gd.Round(2))
	return Totals{
		LineExtension:  lineExt.Round(2),
		GlobalDiscount: gd.Round(2),
		Subtotal:       subtotal,
		TaxAmount:      taxTotal,
		Total:          subtotal.Add(taxTotal),
		Buckets:        buckets,
	}
}

// NonzeroBuckets liefert nur die Sätze > 0 (für Steuerzeilen auf Belegen).
func (t Totals) NonzeroBuckets() []TaxBucket {
	out := make([]TaxBucket, 0, len(t.Buckets))
	for _, b := range t.Buckets {
		if b.Rate.Sign() > 0 {
			out = append(out, b)
		}
	}
	return out
}

// AllZeroRated meldet, ob sämtliche Positionen mit 0 % besteuert sind.
// Dann gehört der Hinweis nach §13b bzw. §19 UStG auf den Beleg.
func AllZeroRated(items []entity.LineItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if it.TaxRate.Sign() != 0 {
			return false
		}
	}
	return true
}
