// Package pdf rendert die Belege (Rechnung, Angebot, Auftrag, Mahnung) als
// A4-PDF mit gofpdf. Ein Motor, je Belegart ein descriptor; der Motor besitzt
// den Cursor und entscheidet über Seitenumbrüche.
//
// Seitenaufbau:
//
//	┌────────────────────────────────────────────────┐
//	│  KOPF: Logo/Firmenname  │  Absenderzeile        │
//	│  Empfängeranschrift     │  Metadaten-Box        │
//	│  TITEL: Rechnung RE-2025-0001                   │
//	│  TABELLE: Pos | Beschreibung | … | Betrag       │
//	│  SUMMENBLOCK (rechts, dynamisch hoch)           │
//	│  §19/§13b-Hinweis · Notizen | Zahlungsblock+QR  │
//	│  FUSS: Firma | Bank | Steuer   Seite X von Y    │
//	└────────────────────────────────────────────────┘
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/pkg/money"
)

// Maße in mm (A4 hoch).
const (
	pageWidth  = 210.0
	marginLeft = 20.0
	marginTop  = 12.0
	marginRight = 15.0
	contentRight = pageWidth - marginRight
	contentWidth = contentRight - marginLeft

	addressY  = 46.0 // Anschrift sitzt im Fensterbereich (DIN 5008 angelehnt)
	titleY    = 84.0
	lineH     = 4.4 // Zeilenhöhe Fließtext
	rowPad    = 2.2 // vertikales Polster je Tabellenzeile
	headH     = 7.0 // Tabellenkopf

	contentBottom  = 262.0 // harte Grenze für Tabellenzeilen
	totalsBottom   = 270.0 // laxere Grenze: der Summenblock darf tiefer
	footerY        = 276.0
	minRowSpace    = 14.0 // unter dieser Resthöhe wird vor einer Zeile umbrochen
)

// Engine rendert Belege. Zustandslos je Aufruf: jeder Render baut ein
// frisches gofpdf-Dokument, es gibt keinen geteilten Cursor.
type Engine struct {
	log         zerolog.Logger
	client      *http.Client
	logoTimeout time.Duration
}

// NewEngine baut den Motor. logoTimeout begrenzt das Nachladen eines
// Logo-URLs; abgelaufene Ladevorgänge degradieren zum Textkopf.
func NewEngine(log zerolog.Logger, logoTimeout time.Duration) *Engine {
	if logoTimeout <= 0 {
		logoTimeout = 5 * time.Second
	}
	return &Engine{
		log:         log.With().Str("component", "pdf").Logger(),
		client:      &http.Client{},
		logoTimeout: logoTimeout,
	}
}

// Invoice rendert die Rechnung, inklusive Girocode wenn eine IBAN hinterlegt ist.
func (e *Engine) Invoice(ctx context.Context, inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error) {
	f := money.NewFormatter(company.Locale)
	desc := invoiceDescriptor(inv, company, customer, f)
	if company.IBAN != "" {
		png, err := paymentQR(company, inv.Number, InvoiceTotal(inv))
		if err != nil {
			e.log.Warn().Err(err).Str("invoice", inv.Number).Msg("girocode übersprungen")
		} else {
			desc.qrPNG = png
		}
	}
	return e.render(ctx, desc, company)
}

// Quote rendert das Angebot.
func (e *Engine) Quote(ctx context.Context, q *entity.Quote, company *entity.Company, customer *entity.Customer) ([]byte, error) {
	f := money.NewFormatter(company.Locale)
	return e.render(ctx, quoteDescriptor(q, company, customer, f), company)
}

// Job rendert den Auftrag samt Unterschriftsblock bei Abnahme.
func (e *Engine) Job(ctx context.Context, job *entity.Job, company *entity.Company, customer *entity.Customer) ([]byte, error) {
	f := money.NewFormatter(company.Locale)
	return e.render(ctx, jobDescriptor(job, company, customer, f), company)
}

// Reminder rendert die Mahnung zur angegebenen Rechnung.
func (e *Engine) Reminder(ctx context.Context, rem *entity.Reminder, inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error) {
	f := money.NewFormatter(company.Locale)
	return e.render(ctx, reminderDescriptor(rem, inv, company, customer, f), company)
}

// ── Rendern ───────────────────────────────────────────────────────────────────

// layout bündelt den Zustand eines Renderlaufs.
type layout struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string // cp1252-Übersetzer für Umlaute und €
	desc   descriptor
	co     *entity.Company
	logo   *logoAsset
	accent [3]int
	y      float64
}

func (e *Engine) render(ctx context.Context, desc descriptor, company *entity.Company) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s %s: %v", domain.ErrGeneration, desc.docType, desc.number, r)
		}
	}()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetTitle(desc.title+" "+desc.number, true)
	pdf.SetAuthor(company.Name, true)
	pdf.SetSubject(desc.title, true)
	pdf.SetCreator("Belego", true)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), desc: desc, co: company}
	l.accent = parseAccent(company.AccentColor)

	logo, logoErr := e.loadLogo(ctx, company)
	if logoErr != nil {
		e.log.Warn().Err(logoErr).Msg("logo nicht ladbar, textkopf wird verwendet")
	}
	if logo != nil {
		opts := gofpdf.ImageOptions{ImageType: logo.imageType}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.data))
		l.logo = logo
	}
	if len(desc.qrPNG) > 0 {
		pdf.RegisterImageOptionsReader("girocode", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(desc.qrPNG))
	}
	if desc.signature != nil && len(desc.signature.Image) > 0 {
		pdf.RegisterImageOptionsReader("signature", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(desc.signature.Image))
	}

	l.newPage(true)
	for _, row := range desc.rows {
		l.renderRow(row)
	}
	l.renderTotals()
	l.renderClause()
	l.renderNotesAndPayment()
	l.renderSignature()
	e.renderFooters(l)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrGeneration, desc.docType, desc.number, err)
	}
	return buf.Bytes(), nil
}

// newPage beginnt eine Seite mit dem für alle Seiten identischen Kopf;
// first steuert nur, ob die Einleitungsabsätze mitgerendert werden.
func (l *layout) newPage(first bool) {
	pdf, tr, co := l.pdf, l.tr, l.co
	pdf.AddPage()

	// Logo bzw. Firmenname rechts oben
	if l.logo != nil {
		pdf.ImageOptions("logo", contentRight-45, marginTop, 45, 0, false,
			gofpdf.ImageOptions{ImageType: l.logo.imageType}, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(l.accent[0], l.accent[1], l.accent[2])
		pdf.SetXY(marginLeft, marginTop+4)
		pdf.CellFormat(contentWidth, 7, tr(co.Name), "", 0, "R", false, 0, "")
	}

	// Absenderzeile über dem Anschriftfeld
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, addressY-6)
	pdf.CellFormat(100, 4, tr(senderLine(co)), "", 0, "L", false, 0, "")

	// Empfängeranschrift
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	y := addressY
	for _, line := range l.desc.address {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 5, tr(line), "", 0, "L", false, 0, "")
		y += 5
	}

	// Metadaten-Box rechts
	metaY := addressY
	for _, mfield := range l.desc.meta {
		pdf.SetXY(contentRight-62, metaY)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(30, 5, tr(mfield.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(32, 5, tr(mfield.value), "", 0, "R", false, 0, "")
		metaY += 5
	}

	// Titel
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(l.accent[0], l.accent[1], l.accent[2])
	pdf.SetXY(marginLeft, titleY)
	pdf.CellFormat(contentWidth, 8, tr(l.desc.title+" "+l.desc.number), "", 0, "L", false, 0, "")
	l.y = titleY + 12

	if first {
		l.renderIntro()
	}
	l.renderTableHead()
}

// senderLine: "Firma · Straße · PLZ Ort" in einer Zeile.
func senderLine(co *entity.Company) string {
	s := co.Name
	if co.Street != "" {
		s += " · " + co.Street
	}
	if co.ZIP != "" || co.City != "" {
		s += " · " + co.ZIP + " " + co.City
	}
	return s
}

func (l *layout) renderIntro() {
	if len(l.desc.intro) == 0 {
		return
	}
	pdf, tr := l.pdf, l.tr
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, para := range l.desc.intro {
		lines := pdf.SplitText(tr(para), contentWidth)
		for _, line := range lines {
			pdf.SetXY(marginLeft, l.y)
			pdf.CellFormat(contentWidth, lineH, line, "", 0, "L", false, 0, "")
			l.y += lineH
		}
		l.y += 2
	}
	l.y += 2
}

// colWidths löst die flexible Spalte auf die Restbreite auf.
func (l *layout) colWidths() []float64 {
	widths := make([]float64, len(l.desc.columns))
	rest := contentWidth
	flexIdx := -1
	for i, c := range l.desc.columns {
		widths[i] = c.width
		if c.width == 0 {
			flexIdx = i
		} else {
			rest -= c.width
		}
	}
	if flexIdx >= 0 {
		widths[flexIdx] = rest
	}
	return widths
}

func (l *layout) renderTableHead() {
	pdf, tr := l.pdf, l.tr
	widths := l.colWidths()

	pdf.SetFillColor(l.accent[0], l.accent[1], l.accent[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft, l.y)
	for i, c := range l.desc.columns {
		pdf.CellFormat(widths[i], headH, tr(c.title), "", 0, c.align, true, 0, "")
	}
	l.y += headH + 1
	pdf.SetTextColor(0, 0, 0)
}

// renderRow zeichnet eine Positionszeile; die flexible Spalte bricht um,
// die Zeilenhöhe folgt der höchsten Zelle. Vor der Zeile wird geprüft, ob
// sie noch auf die Seite passt.
func (l *layout) renderRow(row tableRow) {
	pdf, tr := l.pdf, l.tr
	widths := l.colWidths()

	pdf.SetFont("Helvetica", "", 9)
	if row.dim {
		pdf.SetFont("Helvetica", "I", 8)
	}

	// Höhe aus der umbrechenden Spalte ableiten
	flexIdx := 0
	for i, c := range l.desc.columns {
		if c.width == 0 {
			flexIdx = i
		}
	}
	lines := pdf.SplitText(tr(row.cells[flexIdx]), widths[flexIdx]-2)
	if len(lines) == 0 {
		lines = []string{""}
	}
	rowH := float64(len(lines))*lineH + rowPad

	if contentBottom-l.y < maxf(rowH, minRowSpace) {
		l.newPage(false)
		pdf.SetFont("Helvetica", "", 9)
		if row.dim {
			pdf.SetFont("Helvetica", "I", 8)
		}
	}

	if row.dim {
		pdf.SetTextColor(110, 110, 110)
	}
	x := marginLeft
	for i, c := range l.desc.columns {
		if i == flexIdx {
			for j, line := range lines {
				pdf.SetXY(x+1, l.y+float64(j)*lineH)
				pdf.CellFormat(widths[i]-2, lineH, line, "", 0, c.align, false, 0, "")
			}
		} else {
			pdf.SetXY(x, l.y)
			pdf.CellFormat(widths[i], lineH, tr(row.cells[i]), "", 0, c.align, false, 0, "")
		}
		x += widths[i]
	}
	pdf.SetTextColor(0, 0, 0)

	// feine Trennlinie
	pdf.SetDrawColor(225, 225, 225)
	pdf.Line(marginLeft, l.y+rowH-0.8, contentRight, l.y+rowH-0.8)
	l.y += rowH
}

// renderTotals zeichnet den rechtsbündigen Summenblock; die Höhe richtet
// sich nach der Zeilenzahl (Rabatt + je Satz eine Steuerzeile).
func (l *layout) renderTotals() {
	pdf, tr := l.pdf, l.tr
	const boxW = 92.0
	const lnH = 6.0
	const grandH = 8.0

	boxH := 2.0
	for _, line := range l.desc.totals {
		if line.grand {
			boxH += grandH
		} else {
			boxH += lnH
		}
	}

	// laxere Grenze: der Block darf näher an den Fuß heranrücken
	if totalsBottom-l.y < boxH+3 {
		l.newPage(false)
	}
	l.y += 2

	x := contentRight - boxW
	for _, line := range l.desc.totals {
		if line.grand {
			pdf.SetFillColor(l.accent[0], l.accent[1], l.accent[2])
			pdf.SetTextColor(255, 255, 255)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetXY(x, l.y+1)
			pdf.CellFormat(boxW-34, grandH, tr(line.label), "", 0, "L", true, 0, "")
			pdf.CellFormat(34, grandH, tr(line.value), "", 0, "R", true, 0, "")
			l.y += grandH + 1
			pdf.SetTextColor(0, 0, 0)
		} else {
			pdf.SetFont("Helvetica", "", 9.5)
			pdf.SetXY(x, l.y)
			pdf.CellFormat(boxW-34, lnH, tr(line.label), "", 0, "L", false, 0, "")
			pdf.CellFormat(34, lnH, tr(line.value), "", 0, "R", false, 0, "")
			l.y += lnH
		}
	}
	l.y += 4
}

// renderClause setzt den §19-/§13b-Hinweis mittig unter den Summenblock.
func (l *layout) renderClause() {
	if l.desc.clause == "" {
		return
	}
	pdf, tr := l.pdf, l.tr
	if totalsBottom-l.y < 8 {
		l.newPage(false)
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(marginLeft, l.y)
	pdf.CellFormat(contentWidth, 5, tr(l.desc.clause), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	l.y += 9
}

// renderNotesAndPayment setzt Notizen und Zahlungsblock nebeneinander;
// braucht einer der Blöcke mehr als die halbe Breite hergibt, werden sie
// untereinander gestapelt.
func (l *layout) renderNotesAndPayment() {
	if l.desc.notes == "" && len(l.desc.payment) == 0 {
		return
	}
	pdf, tr := l.pdf, l.tr
	const gap = 10.0
	halfW := (contentWidth - gap) / 2

	pdf.SetFont("Helvetica", "", 9)
	notesLines := pdf.SplitText(tr(l.desc.notes), halfW)
	notesH := float64(len(notesLines))*lineH + 6
	payH := float64(len(l.desc.payment))*lineH + 6
	if len(l.desc.qrPNG) > 0 {
		payH = maxf(payH, 34)
	}

	const stackThreshold = 48.0
	stacked := notesH > stackThreshold || payH > stackThreshold

	blockH := maxf(notesH, payH)
	if stacked {
		// gestapelt: Notizen über volle Breite neu umbrechen
		notesLines = pdf.SplitText(tr(l.desc.notes), contentWidth)
		notesH = float64(len(notesLines))*lineH + 6
		blockH = notesH + payH
	}
	if totalsBottom-l.y < blockH {
		l.newPage(false)
	}

	startY := l.y
	if l.desc.notes != "" {
		w := halfW
		if stacked {
			w = contentWidth
		}
		l.renderTextBlock("Hinweise", notesLines, marginLeft, startY, w)
	}
	payX := marginLeft + halfW + gap
	payY := startY
	if stacked {
		payY = startY + notesH
	}
	if len(l.desc.payment) > 0 {
		l.renderPayment(payX, payY, halfW, stacked)
	}
	l.y = startY + blockH + 4
}

func (l *layout) renderTextBlock(title string, lines []string, x, y, w float64) {
	pdf, tr := l.pdf, l.tr
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 5, tr(title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	yy := y + 6
	for _, line := range lines {
		pdf.SetXY(x, yy)
		pdf.CellFormat(w, lineH, line, "", 0, "L", false, 0, "")
		yy += lineH
	}
}

// renderPayment: Zahlungsdaten links, Girocode rechts daneben.
func (l *layout) renderPayment(x, y, w float64, stacked bool) {
	pdf, tr := l.pdf, l.tr
	if stacked {
		x = marginLeft
		w = contentWidth
	}
	textW := w
	if len(l.desc.qrPNG) > 0 {
		textW = w - 32
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y)
	pdf.CellFormat(textW, 5, tr("Zahlung"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	yy := y + 6
	for _, line := range l.desc.payment {
		pdf.SetXY(x, yy)
		pdf.CellFormat(textW, lineH, tr(line), "", 0, "L", false, 0, "")
		yy += lineH
	}

	if len(l.desc.qrPNG) > 0 {
		qrX := x + w - 28
		pdf.ImageOptions("girocode", qrX, y, 28, 28, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetFont("Helvetica", "", 6.5)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(qrX-4, y+28.5)
		pdf.CellFormat(36, 3, tr("Girocode: Banking-App scannen"), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

// renderSignature zeichnet den Abnahme-Block eines unterschriebenen Auftrags.
func (l *layout) renderSignature() {
	sig := l.desc.signature
	if sig == nil {
		return
	}
	pdf, tr := l.pdf, l.tr
	const blockH = 40.0
	if totalsBottom-l.y < blockH {
		l.newPage(false)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginLeft, l.y)
	pdf.CellFormat(80, 5, tr("Abnahme"), "", 0, "L", false, 0, "")
	if len(sig.Image) > 0 {
		pdf.ImageOptions("signature", marginLeft, l.y+6, 55, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	sigLineY := l.y + 30
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(marginLeft, sigLineY, marginLeft+70, sigLineY)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, sigLineY+1)
	pdf.CellFormat(70, 4, tr(fmt.Sprintf("%s, %s", sig.SignerName, sig.SignedAt.Format(dateDE))), "", 0, "L", false, 0, "")
	l.y = sigLineY + 8
}

// renderFooters läuft nach dem Inhalt über alle Seiten (zweiter Durchgang)
// und setzt Fußzeile plus "Seite X von Y" über das Seitenzahl-Alias.
func (e *Engine) renderFooters(l *layout) {
	pdf, tr, co := l.pdf, l.tr, l.co
	n := pdf.PageCount()
	colW := contentWidth / 3

	for i := 1; i <= n; i++ {
		pdf.SetPage(i)
		pdf.SetDrawColor(180, 180, 180)
		pdf.Line(marginLeft, footerY-2, contentRight, footerY-2)

		pdf.SetFont("Helvetica", "", 6.5)
		pdf.SetTextColor(110, 110, 110)

		writeFooterCol(pdf, tr, marginLeft, colW, footerY, []string{co.Name, co.Street, co.ZIP + " " + co.City})
		writeFooterCol(pdf, tr, marginLeft+colW, colW, footerY, footerBank(co))
		writeFooterCol(pdf, tr, marginLeft+2*colW, colW, footerY, footerTax(co))

		pdf.SetXY(marginLeft, footerY-6.5)
		pdf.CellFormat(contentWidth, 4, tr(fmt.Sprintf("Seite %d von {nb}", i)), "", 0, "R", false, 0, "")
	}
}

func writeFooterCol(pdf *gofpdf.Fpdf, tr func(string) string, x, w, y float64, lines []string) {
	yy := y
	for _, line := range lines {
		if line == "" {
			continue
		}
		pdf.SetXY(x, yy)
		pdf.CellFormat(w, 3.2, tr(line), "", 0, "L", false, 0, "")
		yy += 3.2
	}
}

func footerBank(co *entity.Company) []string {
	if co.IBAN == "" {
		return []string{co.Email, co.Phone, co.Website}
	}
	return []string{co.BankName, "IBAN " + co.IBAN, "BIC " + co.BIC}
}

func footerTax(co *entity.Company) []string {
	var lines []string
	if co.TaxNumber != "" {
		lines = append(lines, "St.-Nr. "+co.TaxNumber)
	}
	if co.VATID != "" {
		lines = append(lines, "USt-IdNr. "+co.VATID)
	}
	if co.Email != "" {
		lines = append(lines, co.Email)
	}
	return lines
}

// parseAccent liest "#RRGGBB"; unbrauchbare Werte fallen auf Blau zurück.
func parseAccent(hex string) [3]int {
	fallback := [3]int{29, 78, 216}
	if len(hex) != 7 || hex[0] != '#' {
		return fallback
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return [3]int{r, g, b}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// InvoiceTotal ist eine kleine Hilfe für Aufrufer, die den Bruttobetrag einer
// Rechnung ohne eigene Summenlogik brauchen (z.B. den Girocode-Betrag).
func InvoiceTotal(inv *entity.Invoice) decimal.Decimal {
	return billing.Calculate(inv.Items, inv.Discount).Total
}
