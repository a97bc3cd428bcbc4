package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jnamyslo/belego-api/pkg/money"
)

func TestAmount_DeutschesFormat(t *testing.T) {
	f := money.NewFormatter("de-DE")

	assert.Equal(t, "1.234,56", f.Amount(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "0,50", f.Amount(decimal.RequireFromString("0.5")))
	assert.Equal(t, "1.000.000,00", f.Amount(decimal.NewFromInt(1_000_000)))
}

func TestEuro_MitWaehrungszeichen(t *testing.T) {
	f := money.NewFormatter("de-DE")
	assert.Equal(t, "214,20 €", f.Euro(decimal.RequireFromString("214.2")))
}

func TestNewFormatter_UnbekannteLocaleFaelltAufDeutschZurueck(t *testing.T) {
	f := money.NewFormatter("xx-ZZ!!")
	assert.Equal(t, "19,00", f.Amount(decimal.NewFromInt(19)))
}

func TestPercent(t *testing.T) {
	f := money.NewFormatter("de-DE")
	assert.Equal(t, "19 %", f.Percent(decimal.NewFromInt(19)))
}
