package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

func TestDiscountAmount_ProzentWirdAuf100Begrenzt(t *testing.T) {
	d := &entity.Discount{Type: entity.DiscountPercentage, Value: dec("150")}
	got := billing.DiscountAmount(dec("200"), d)
	assertDec(t, "200.00", got, "150 % werden auf 100 % gekappt")
}

func TestDiscountAmount_NegativerWertErgibtNull(t *testing.T) {
	d := &entity.Discount{Type: entity.DiscountPercentage, Value: dec("-5")}
	got := billing.DiscountAmount(dec("200"), d)
	assert.True(t, got.IsZero(), "negativer Rabattwert darf die Basis nicht erhöhen")
}

func TestDiscountAmount_FestWirdAufBasisBegrenzt(t *testing.T) {
	d := &entity.Discount{Type: entity.DiscountFixed, Value: dec("80")}
	got := billing.DiscountAmount(dec("50"), d)
	assertDec(t, "50.00", got, "fester Rabatt über der Basis wird gekappt")
}

func TestDiscountAmount_NilOhneWirkung(t *testing.T) {
	got := billing.DiscountAmount(dec("100"), nil)
	assert.True(t, got.IsZero())
}

func TestDiscountAmount_UnbekannterTypOhneWirkung(t *testing.T) {
	d := &entity.Discount{Type: "coupon", Value: dec("10")}
	got := billing.DiscountAmount(dec("100"), d)
	assert.True(t, got.IsZero(), "unbekannte Rabattart wird ignoriert")
}

func TestDiscountAmount_BasisNullOhneWirkung(t *testing.T) {
	d := &entity.Discount{Type: entity.DiscountFixed, Value: dec("10")}
	got := billing.DiscountAmount(dec("0"), d)
	assert.True(t, got.IsZero(), "ohne Basis kein Rabatt")
}

func TestLineTotal_MitPositionsrabatt(t *testing.T) {
	it := entity.LineItem{
		Quantity:  dec("4"),
		UnitPrice: dec("25"),
		TaxRate:   dec("19"),
		Discount:  &entity.Discount{Type: entity.DiscountFixed, Value: dec("10")},
	}
	assertDec(t, "90.00", billing.LineTotal(it), "100 − 10 fester Rabatt")
	assertDec(t, "10.00", billing.LineDiscount(it), "Rabattbetrag der Position")
}

func TestLineTotal_NieNegativ(t *testing.T) {
	it := entity.LineItem{
		Quantity:  dec("1"),
		UnitPrice: dec("30"),
		Discount:  &entity.Discount{Type: entity.DiscountFixed, Value: dec("999")},
	}
	assert.True(t, billing.LineTotal(it).IsZero(), "Rabatt wird auf den Positionsbetrag gekappt")
}
