package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestCalculate_EinSatzOhneRabatt ist der Referenzvektor der Summenberechnung:
//
//	Positionen: 2 × 100,00 € zu 19 %
//	Erwartet:   Aufschlüsselung {19 %: Basis 200,00, Steuer 38,00}, Brutto 238,00
//
// Ändert jemand Rundung, Verteilung oder Satzbildung, schlägt dieser Test
// sofort fehl.
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculate_EinSatzOhneRabatt(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Montagearbeiten", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("19")},
	}

	tot := billing.Calculate(items, nil)

	require.Len(t, tot.Buckets, 1)
	assertDec(t, "200.00", tot.Buckets[0].Taxable, "Bemessungsgrundlage 19 %")
	assertDec(t, "38.00", tot.Buckets[0].Tax, "Steuer 19 %")
	assertDec(t, "200.00", tot.Subtotal, "Netto")
	assertDec(t, "38.00", tot.TaxAmount, "Steuersumme")
	assertDec(t, "238.00", tot.Total, "Brutto")
}

// TestCalculate_GesamtrabattProzentual verteilt einen 10 %-Gesamtrabatt auf den
// einzigen Steuersatz: 200,00 → 180,00 Basis, 34,20 Steuer, 214,20 Brutto.
func TestCalculate_GesamtrabattProzentual(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Montagearbeiten", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("19")},
	}
	global := &entity.Discount{Type: entity.DiscountPercentage, Value: dec("10")}

	tot := billing.Calculate(items, global)

	require.Len(t, tot.Buckets, 1)
	assertDec(t, "20.00", tot.GlobalDiscount, "Rabattbetrag")
	assertDec(t, "180.00", tot.Buckets[0].Taxable, "skalierte Bemessungsgrundlage")
	assertDec(t, "34.20", tot.Buckets[0].Tax, "neu berechnete Steuer")
	assertDec(t, "180.00", tot.Subtotal, "Netto nach Rabatt")
	assertDec(t, "214.20", tot.Total, "Brutto nach Rabatt")
}

// TestCalculate_VerteilungMehrereSaetze prüft die anteilige Verteilung eines
// festen Gesamtrabatts über zwei Steuersätze.
func TestCalculate_VerteilungMehrereSaetze(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Material", Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("19")},
		{Description: "Lebensmittel", Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("7")},
	}
	global := &entity.Discount{Type: entity.DiscountFixed, Value: dec("30")}

	tot := billing.Calculate(items, global)

	require.Len(t, tot.Buckets, 2)
	// Faktor (200−30)/200 = 0,85 auf beide Grundlagen
	assertDec(t, "85.00", tot.Buckets[0].Taxable, "Basis 7 %")
	assertDec(t, "5.95", tot.Buckets[0].Tax, "Steuer 7 %")
	assertDec(t, "85.00", tot.Buckets[1].Taxable, "Basis 19 %")
	assertDec(t, "16.15", tot.Buckets[1].Tax, "Steuer 19 %")
	assertDec(t, "170.00", tot.Subtotal, "Netto")
	assertDec(t, "192.10", tot.Total, "Brutto")
}

// TestCalculate_SummeDerBucketsNahBeimNetto: bei krummen Beträgen darf die
// Summe der gerundeten Grundlagen höchstens einen Cent vom Netto abweichen.
func TestCalculate_SummeDerBucketsNahBeimNetto(t *testing.T) {
	items := []entity.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("99.99"), TaxRate: dec("19")},
		{Quantity: dec("1"), UnitPrice: dec("0.01"), TaxRate: dec("7")},
		{Quantity: dec("3"), UnitPrice: dec("33.33"), TaxRate: dec("19")},
	}
	global := &entity.Discount{Type: entity.DiscountPercentage, Value: dec("10")}

	tot := billing.Calculate(items, global)

	sum := decimal.Zero
	for _, b := range tot.Buckets {
		sum = sum.Add(b.Taxable)
	}
	diff := sum.Sub(tot.Subtotal).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")),
		"Summe der Grundlagen (%s) weicht mehr als 1 Cent vom Netto (%s) ab", sum, tot.Subtotal)
}

// TestCalculate_PositionsrabattVorSatzbildung: Positionsrabatte wirken vor der
// Zuordnung zum Steuersatz.
func TestCalculate_PositionsrabattVorSatzbildung(t *testing.T) {
	items := []entity.LineItem{
		{
			Quantity:  dec("2"),
			UnitPrice: dec("100"),
			TaxRate:   dec("19"),
			Discount:  &entity.Discount{Type: entity.DiscountPercentage, Value: dec("25")},
		},
	}

	tot := billing.Calculate(items, nil)

	require.Len(t, tot.Buckets, 1)
	assertDec(t, "150.00", tot.Buckets[0].Taxable, "Basis nach Positionsrabatt")
	assertDec(t, "28.50", tot.Buckets[0].Tax, "Steuer auf rabattierte Basis")
	assertDec(t, "150.00", tot.LineExtension, "Positionssumme")
}

// TestCalculate_NullsatzEigenerBucket: 0 %-Positionen bilden einen eigenen
// Bucket mit Steuer 0 und fallen aus NonzeroBuckets heraus.
func TestCalculate_NullsatzEigenerBucket(t *testing.T) {
	items := []entity.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("500"), TaxRate: dec("0")},
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("19")},
	}

	tot := billing.Calculate(items, nil)

	require.Len(t, tot.Buckets, 2)
	assert.True(t, tot.Buckets[0].Rate.IsZero(), "erster Bucket muss der 0 %-Satz sein")
	assertDec(t, "500.00", tot.Buckets[0].Taxable, "Basis 0 %")
	assertDec(t, "0.00", tot.Buckets[0].Tax, "Steuer 0 %")

	nz := tot.NonzeroBuckets()
	require.Len(t, nz, 1)
	assert.True(t, nz[0].Rate.Equal(dec("19")))
}

// TestCalculate_LeereListe: keine Positionen ergeben durchgehend 0 und keinen
// Bucket; die Rabattverteilung darf nicht durch 0 teilen.
func TestCalculate_LeereListe(t *testing.T) {
	global := &entity.Discount{Type: entity.DiscountPercentage, Value: dec("10")}

	tot := billing.Calculate(nil, global)

	assert.Empty(t, tot.Buckets)
	assertDec(t, "0.00", tot.Subtotal, "Netto")
	assertDec(t, "0.00", tot.Total, "Brutto")
	assertDec(t, "0.00", tot.GlobalDiscount, "Rabatt ohne Basis")
}

// TestCalculate_BucketsAufsteigend: Aufschlüsselung immer 0 → 7 → 19.
func TestCalculate_BucketsAufsteigend(t *testing.T) {
	items := []entity.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("19")},
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("0")},
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("7")},
	}

	tot := billing.Calculate(items, nil)

	require.Len(t, tot.Buckets, 3)
	assert.True(t, tot.Buckets[0].Rate.IsZero())
	assert.True(t, tot.Buckets[1].Rate.Equal(dec("7")))
	assert.True(t, tot.Buckets[2].Rate.Equal(dec("19")))
}

// ── AllZeroRated ──────────────────────────────────────────────────────────────

func TestAllZeroRated(t *testing.T) {
	zero := []entity.LineItem{
		{Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("0")},
		{Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: dec("0")},
	}
	mixed := append(zero, entity.LineItem{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("19")})

	assert.True(t, billing.AllZeroRated(zero), "nur 0 %-Positionen")
	assert.False(t, billing.AllZeroRated(mixed), "gemischte Sätze")
	assert.False(t, billing.AllZeroRated(nil), "leere Liste löst keinen Hinweis aus")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: erwartet %s, erhalten %s", msg, want, got)
}
