package pdf

import (
	"fmt"
	"time"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/pkg/money"
)

// Ein Layout-Motor, vier Belegarten: der descriptor beschreibt, WAS auf den
// Beleg gehört (Titel, Metadaten, Spalten, Zeilen, Summen); der Motor in
// engine.go kümmert sich nur noch um Umbruch, Kopf, Fuß und Maße.

type column struct {
	title string
	width float64 // mm; 0 = Restbreite (genau eine Spalte)
	align string  // "L", "R", "C"
}

type tableRow struct {
	cells []string // gleiche Länge wie columns; die flexible Spalte bricht um
	dim   bool     // abgesetzte Unterzeile, z.B. Positionsrabatt
}

type metaField struct{ label, value string }

type totalsLine struct {
	label string
	value string
	grand bool // Endsumme: fett und hervorgehoben
}

type descriptor struct {
	docType string
	title   string // "Rechnung", "Angebot", "Auftrag", "2. Mahnung"
	number  string

	address []string // Empfängerblock
	meta    []metaField
	intro   []string // Absätze vor der Tabelle (Mahntext); nur auf Seite 1

	columns []column
	rows    []tableRow
	totals  []totalsLine

	clause  string   // §19/§13b-Hinweis, "" = keiner
	notes   string
	payment []string // Zahlungsblock, leer = keiner

	signature *entity.Signature // nur Aufträge
	qrPNG     []byte            // Girocode, nur Rechnungen
}

const dateDE = "02.01.2006"

// itemColumns sind die Standardspalten für Positionstabellen.
func itemColumns() []column {
	return []column{
		{title: "Pos.", width: 12, align: "C"},
		{title: "Beschreibung", width: 0, align: "L"},
		{title: "Menge", width: 18, align: "R"},
		{title: "Einzelpreis", width: 26, align: "R"},
		{title: "USt.", width: 16, align: "R"},
		{title: "Betrag", width: 26, align: "R"},
	}
}

// itemRows rendert Positionen; Positionsrabatte erscheinen als abgesetzte
// Unterzeile, damit Zwischensumme und Positionsbeträge nachrechenbar bleiben.
func itemRows(items []entity.LineItem, f *money.Formatter) []tableRow {
	rows := make([]tableRow, 0, len(items))
	for _, it := range items {
		gross := it.Quantity.Mul(it.UnitPrice)
		rows = append(rows, tableRow{cells: []string{
			fmt.Sprintf("%d", it.Position),
			it.Description,
			f.Amount(it.Quantity),
			f.Euro(it.UnitPrice),
			f.Percent(it.TaxRate),
			f.Euro(gross),
		}})
		if d := billing.LineDiscount(it); d.Sign() > 0 {
			rows = append(rows, tableRow{dim: true, cells: []string{
				"", discountLabel(it.Discount, f), "", "", "", "-" + f.Euro(d),
			}})
		}
	}
	return rows
}

func discountLabel(d *entity.Discount, f *money.Formatter) string {
	if d != nil && d.Type == entity.DiscountPercentage {
		return "abzgl. " + f.Percent(d.Value) + " Rabatt"
	}
	return "abzgl. Rabatt"
}

// totalsLines baut den Summenblock aus den berechneten Belegsummen.
func totalsLines(totals billing.Totals, f *money.Formatter) []totalsLine {
	var lines []totalsLine
	if totals.GlobalDiscount.Sign() > 0 {
		lines = append(lines,
			totalsLine{label: "Zwischensumme", value: f.Euro(totals.LineExtension)},
			totalsLine{label: "Rabatt", value: "-" + f.Euro(totals.GlobalDiscount)},
		)
	}
	lines = append(lines, totalsLine{label: "Nettobetrag", value: f.Euro(totals.Subtotal)})
	for _, b := range totals.NonzeroBuckets() {
		lines = append(lines, totalsLine{
			label: "zzgl. " + f.Percent(b.Rate) + " USt. auf " + f.Euro(b.Taxable),
			value: f.Euro(b.Tax),
		})
	}
	lines = append(lines, totalsLine{label: "Gesamtbetrag", value: f.Euro(totals.Total), grand: true})
	return lines
}

func addressBlock(customer *entity.Customer) []string {
	lines := []string{customer.Name}
	if customer.ContactPerson != "" {
		lines = append(lines, customer.ContactPerson)
	}
	if customer.Street != "" {
		lines = append(lines, customer.Street)
	}
	if customer.ZIP != "" || customer.City != "" {
		lines = append(lines, customer.ZIP+" "+customer.City)
	}
	if customer.Country != "" && customer.Country != "DE" {
		lines = append(lines, customer.Country)
	}
	return lines
}

func paymentBlock(company *entity.Company, due time.Time) []string {
	if company.IBAN == "" {
		return nil
	}
	lines := []string{"Zahlbar ohne Abzug bis " + due.Format(dateDE) + "."}
	if company.BankName != "" {
		lines = append(lines, company.BankName)
	}
	lines = append(lines, "IBAN: "+company.IBAN)
	if company.BIC != "" {
		lines = append(lines, "BIC: "+company.BIC)
	}
	return lines
}

func taxClauseFor(items []entity.LineItem, company *entity.Company) string {
	if billing.AllZeroRated(items) {
		return billing.TaxClause(company.IsSmallBusiness)
	}
	return ""
}

// ── Belegarten ────────────────────────────────────────────────────────────────

func invoiceDescriptor(inv *entity.Invoice, company *entity.Company, customer *entity.Customer, f *money.Formatter) descriptor {
	totals := billing.Calculate(inv.Items, inv.Discount)
	meta := []metaField{
		{label: "Rechnungsdatum", value: inv.IssueDate.Format(dateDE)},
		{label: "Fällig am", value: inv.DueDate.Format(dateDE)},
	}
	if customer.Number != "" {
		meta = append(meta, metaField{label: "Kundennummer", value: customer.Number})
	}
	if company.VATID != "" {
		meta = append(meta, metaField{label: "USt-IdNr.", value: company.VATID})
	}
	return descriptor{
		docType: entity.DocTypeInvoice,
		title:   "Rechnung",
		number:  inv.Number,
		address: addressBlock(customer),
		meta:    meta,
		columns: itemColumns(),
		rows:    itemRows(inv.Items, f),
		totals:  totalsLines(totals, f),
		clause:  taxClauseFor(inv.Items, company),
		notes:   inv.Notes,
		payment: paymentBlock(company, inv.DueDate),
	}
}

func quoteDescriptor(q *entity.Quote, company *entity.Company, customer *entity.Customer, f *money.Formatter) descriptor {
	totals := billing.Calculate(q.Items, q.Discount)
	meta := []metaField{
		{label: "Angebotsdatum", value: q.IssueDate.Format(dateDE)},
		{label: "Gültig bis", value: q.ValidUntil.Format(dateDE)},
	}
	if customer.Number != "" {
		meta = append(meta, metaField{label: "Kundennummer", value: customer.Number})
	}
	return descriptor{
		docType: entity.DocTypeQuote,
		title:   "Angebot",
		number:  q.Number,
		address: addressBlock(customer),
		meta:    meta,
		columns: itemColumns(),
		rows:    itemRows(q.Items, f),
		totals:  totalsLines(totals, f),
		clause:  taxClauseFor(q.Items, company),
		notes:   q.Notes,
	}
}

func jobDescriptor(job *entity.Job, company *entity.Company, customer *entity.Customer, f *money.Formatter) descriptor {
	items := billing.JobLineItems(job)
	totals := billing.Calculate(items, nil)
	meta := []metaField{
		{label: "Auftragsdatum", value: job.CreatedAt.Format(dateDE)},
		{label: "Status", value: jobStatusDE(job.Status)},
	}
	if customer.Number != "" {
		meta = append(meta, metaField{label: "Kundennummer", value: customer.Number})
	}
	var intro []string
	if job.Title != "" {
		intro = append(intro, job.Title)
	}
	if job.Description != "" {
		intro = append(intro, job.Description)
	}
	return descriptor{
		docType:   entity.DocTypeJob,
		title:     "Auftrag",
		number:    job.Number,
		address:   addressBlock(customer),
		meta:      meta,
		intro:     intro,
		columns:   itemColumns(),
		rows:      itemRows(items, f),
		totals:    totalsLines(totals, f),
		clause:    taxClauseFor(items, company),
		signature: job.Signature,
	}
}

func reminderDescriptor(rem *entity.Reminder, inv *entity.Invoice, company *entity.Company, customer *entity.Customer, f *money.Formatter) descriptor {
	intro := []string{fmt.Sprintf(
		"zur Rechnung %s vom %s konnten wir bis heute keinen Zahlungseingang feststellen.",
		inv.Number, inv.IssueDate.Format(dateDE))}
	if rem.Text != "" {
		intro = append(intro, rem.Text)
	}

	rows := []tableRow{
		{cells: []string{
			"Rechnung " + inv.Number + " vom " + inv.IssueDate.Format(dateDE),
			f.Euro(inv.Total),
		}},
	}
	totalDue := inv.Total
	if rem.Fee.Sign() > 0 {
		rows = append(rows, tableRow{cells: []string{
			fmt.Sprintf("Mahngebühr %d. Mahnung", rem.Stage),
			f.Euro(rem.Fee),
		}})
		totalDue = totalDue.Add(rem.Fee)
	}

	return descriptor{
		docType: entity.DocTypeReminder,
		title:   fmt.Sprintf("%d. Mahnung", rem.Stage),
		number:  inv.Number,
		address: addressBlock(customer),
		meta: []metaField{
			{label: "Mahndatum", value: rem.IssueDate.Format(dateDE)},
			{label: "Neues Zahlungsziel", value: rem.DueDate.Format(dateDE)},
			{label: "Mahnstufe", value: fmt.Sprintf("%d von %d", rem.Stage, entity.MaxReminderStage)},
		},
		intro: intro,
		columns: []column{
			{title: "Forderung", width: 0, align: "L"},
			{title: "Betrag", width: 32, align: "R"},
		},
		rows: rows,
		totals: []totalsLine{
			{label: "Offener Gesamtbetrag", value: f.Euro(totalDue), grand: true},
		},
		payment: paymentBlock(company, rem.DueDate),
	}
}

func jobStatusDE(status string) string {
	switch status {
	case entity.JobStatusDraft:
		return "Entwurf"
	case entity.JobStatusInProgress:
		return "in Bearbeitung"
	case entity.JobStatusCompleted:
		return "abgeschlossen"
	case entity.JobStatusInvoiced:
		return "abgerechnet"
	default:
		return status
	}
}
