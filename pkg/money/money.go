// Package money formatiert Beträge für deutsche Belege, z.B. "1.234,56 €".
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formatiert Beträge gemäß Locale (Standard de-DE).
type Formatter struct {
	p *message.Printer
}

// NewFormatter erstellt einen Formatter; unbekannte Locales fallen auf Deutsch zurück.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.German
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

// Amount liefert den Betrag mit Tausendertrennung und zwei Nachkommastellen,
// z.B. "1.234,56".
func (f *Formatter) Amount(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.p.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Euro liefert den Betrag mit Währungszeichen, z.B. "1.234,56 €".
func (f *Formatter) Euro(d decimal.Decimal) string {
	return f.Amount(d) + " €"
}

// Percent liefert einen Steuersatz ohne Nachkommastellen, z.B. "19 %".
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.p.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(1))) + " %"
}
