package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/jnamyslo/belego-api/internal/application/documents"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/pkg/money"
)

// Der Umsatzbericht ist ein internes Dokument (kein Beleg im Rechtssinn) und
// wird deshalb nicht über den gofpdf-Motor, sondern mit Maroto gerendert.

var (
	reportPrimary = &props.Color{Red: 29, Green: 78, Blue: 216}
	reportGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	reportWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// RevenueReport rendert den Jahres-Umsatzbericht mit Maroto v2.
type RevenueReport struct{}

var _ documents.ReportRenderer = (*RevenueReport)(nil)

// NewRevenueReport baut den Generator.
func NewRevenueReport() *RevenueReport { return &RevenueReport{} }

// Generate erzeugt den Bericht und liefert die PDF-Bytes.
func (r *RevenueReport) Generate(_ context.Context, data documents.RevenueReportData, company *entity.Company) ([]byte, error) {
	f := money.NewFormatter(company.Locale)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Umsatzbericht %d", data.Year), true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(reportHeaderRow(data, company))
	m.AddRows(line.NewRow(2, props.Line{Color: reportPrimary, Thickness: 0.5}))
	m.AddRows(monthTableHeaderRow())
	for _, mo := range data.Months {
		m.AddRows(monthRow(mo, f))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: reportGray, Thickness: 0.3}))
	m.AddRows(yearTotalRow(data, f))
	m.AddRows(line.NewRow(4))
	m.AddRows(rateSectionRows(data.Rates, f)...)
	m.AddRows(line.NewRow(4))
	m.AddRows(reportFooterRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("umsatzbericht rendern: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Abschnitte ────────────────────────────────────────────────────────────────

func reportHeaderRow(data documents.RevenueReportData, company *entity.Company) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: reportPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d Rechnungen im Berichtsjahr", data.InvoiceCount), props.Text{
				Size: 8, Top: 9, Color: reportGray,
			}),
		),
		col.New(5).Add(
			text.New("UMSATZBERICHT", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: reportPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d", data.Year), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right, Top: 7,
			}),
		),
	)
}

func monthTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: reportWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: reportPrimary}).Add(
		h("Monat", 3, align.Left),
		h("Rechnungen", 2, align.Center),
		h("Netto", 2, align.Right),
		h("USt.", 2, align.Right),
		h("Brutto", 3, align.Right),
	)
}

func monthRow(mo documents.RevenueMonth, f *money.Formatter) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(monthDE(mo.Month), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", mo.Count), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(f.Euro(mo.Net), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(f.Euro(mo.Tax), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(f.Euro(mo.Gross), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func yearTotalRow(data documents.RevenueReportData, f *money.Formatter) core.Row {
	return row.New(9).Add(
		col.New(3).Add(text.New("Gesamt", props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Left: 1, Color: reportPrimary,
		})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", data.InvoiceCount), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 2,
		})),
		col.New(2).Add(text.New(f.Euro(data.Net), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1,
		})),
		col.New(2).Add(text.New(f.Euro(data.Tax), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1,
		})),
		col.New(3).Add(text.New(f.Euro(data.Gross), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1, Color: reportPrimary,
		})),
	)
}

func rateSectionRows(rates []documents.RevenueRateTotal, f *money.Formatter) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("Aufschlüsselung nach Steuersatz", props.Text{
				Style: fontstyle.Bold, Size: 9, Color: reportPrimary, Top: 1,
			}),
		)),
	}
	for _, rt := range rates {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(f.Percent(rt.Rate)+" USt.", props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New("Bemessungsgrundlage "+f.Euro(rt.Taxable), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
			col.New(5).Add(text.New("Steuer "+f.Euro(rt.Tax), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return rows
}

func reportFooterRow() core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("Interner Bericht. Ersetzt keine Umsatzsteuervoranmeldung und keinen Jahresabschluss.",
			props.Text{Size: 6.5, Color: reportGray, Top: 2}),
	))
}

func monthDE(m time.Month) string {
	names := [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"}
	if m < 1 || m > 12 {
		return m.String()
	}
	return names[m-1]
}
