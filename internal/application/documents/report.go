package documents

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// Revenue aggregiert alle gestellten Rechnungen eines Jahres (Entwürfe und
// Stornos zählen nicht) und rendert daraus den Umsatzbericht als PDF. Der
// Bericht ist ein internes Dokument und landet nicht im Journal.
func (uc *UseCase) Revenue(ctx context.Context, year int) ([]byte, error) {
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: jahr %d außerhalb des gültigen bereichs", domain.ErrInvalidInput, year)
	}
	company, err := uc.primaryCompany()
	if err != nil {
		return nil, err
	}
	invoices, err := uc.deps.InvoiceRepo.ListByIssueYear(company.ID, year)
	if err != nil {
		return nil, fmt.Errorf("rechnungen für %d laden: %w", year, err)
	}

	data := aggregateRevenue(year, invoices)
	out, err := uc.deps.ReportRenderer.Generate(ctx, data, company)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// aggregateRevenue verdichtet die Rechnungen zu Monats- und Satzsummen.
// Die Summen werden aus den Positionen neu berechnet, nicht aus den
// gespeicherten Belegsummen, damit die Satz-Aufschlüsselung konsistent ist.
func aggregateRevenue(year int, invoices []*entity.Invoice) RevenueReportData {
	data := RevenueReportData{
		Year:  year,
		Net:   decimal.Zero,
		Tax:   decimal.Zero,
		Gross: decimal.Zero,
	}

	byMonth := make(map[time.Month]*RevenueMonth)
	byRate := make(map[string]*RevenueRateTotal)

	for _, inv := range invoices {
		if inv.Status == entity.InvoiceStatusDraft || inv.Status == entity.InvoiceStatusCancelled {
			continue
		}
		totals := billing.Calculate(inv.Items, inv.Discount)

		m := inv.IssueDate.Month()
		month, ok := byMonth[m]
		if !ok {
			month = &RevenueMonth{Month: m, Net: decimal.Zero, Tax: decimal.Zero, Gross: decimal.Zero}
			byMonth[m] = month
		}
		month.Net = month.Net.Add(totals.Subtotal)
		month.Tax = month.Tax.Add(totals.TaxAmount)
		month.Gross = month.Gross.Add(totals.Total)
		month.Count++

		for _, b := range totals.Buckets {
			key := b.Rate.String()
			rt, ok := byRate[key]
			if !ok {
				rt = &RevenueRateTotal{Rate: b.Rate, Taxable: decimal.Zero, Tax: decimal.Zero}
				byRate[key] = rt
			}
			rt.Taxable = rt.Taxable.Add(b.Taxable)
			rt.Tax = rt.Tax.Add(b.Tax)
		}

		data.Net = data.Net.Add(totals.Subtotal)
		data.Tax = data.Tax.Add(totals.TaxAmount)
		data.Gross = data.Gross.Add(totals.Total)
		data.InvoiceCount++
	}

	for m := time.January; m <= time.December; m++ {
		if month, ok := byMonth[m]; ok {
			data.Months = append(data.Months, *month)
		} else {
			data.Months = append(data.Months, RevenueMonth{
				Month: m, Net: decimal.Zero, Tax: decimal.Zero, Gross: decimal.Zero,
			})
		}
	}

	for _, rt := range byRate {
		data.Rates = append(data.Rates, *rt)
	}
	sort.Slice(data.Rates, func(i, j int) bool { return data.Rates[i].Rate.LessThan(data.Rates[j].Rate) })

	return data
}
