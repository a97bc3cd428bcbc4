package billing

import (
	"fmt"
	"time"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Präfixe der Belegnummern je Belegart.
var numberPrefix = map[string]string{
	entity.DocTypeInvoice: "RE",
	entity.DocTypeQuote:   "AN",
	entity.DocTypeJob:     "AU",
}

// nextNumber vergibt die nächste Belegnummer, z.B. RE-2025-0001.
// Muss innerhalb einer Transaktion laufen (SequenceRepo sperrt mit FOR UPDATE).
func nextNumber(seqRepo repository.SequenceRepository, companyID, docType string, issue time.Time) (string, error) {
	n, err := seqRepo.Next(companyID, docType, issue.Year())
	if err != nil {
		return "", fmt.Errorf("belegnummer vergeben: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", numberPrefix[docType], issue.Year(), n), nil
}

// parseDate liest ein Datum im Format YYYY-MM-DD; leer ergibt den Fallback.
func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

func discountFromDTO(d *dto.DiscountDTO) *entity.Discount {
	if d == nil {
		return nil
	}
	if d.Type != entity.DiscountPercentage && d.Type != entity.DiscountFixed {
		return nil
	}
	return &entity.Discount{Type: d.Type, Value: d.Value}
}

func discountToDTO(d *entity.Discount) *dto.DiscountDTO {
	if d == nil {
		return nil
	}
	return &dto.DiscountDTO{Type: d.Type, Value: d.Value}
}

// itemsFromDTO baut Belegpositionen aus dem Request; Rabatte nur, wenn der
// Betrieb sie freigeschaltet hat.
func itemsFromDTO(in []dto.LineItemRequest, discountsEnabled bool) ([]entity.LineItem, error) {
	items := make([]entity.LineItem, 0, len(in))
	for i, r := range in {
		if r.Description == "" || r.Quantity.Sign() < 0 {
			return nil, domain.ErrInvalidInput
		}
		it := entity.LineItem{
			Position:    i + 1,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TaxRate:     r.TaxRate,
		}
		if discountsEnabled {
			it.Discount = discountFromDTO(r.Discount)
		}
		items = append(items, it)
	}
	return items, nil
}

func itemsToDTO(items []entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Discount:    discountToDTO(it.Discount),
			Total:       billing.LineTotal(it).Round(2),
		})
	}
	return out
}

func bucketsToDTO(t billing.Totals) []dto.TaxBucketDTO {
	out := make([]dto.TaxBucketDTO, 0, len(t.Buckets))
	for _, b := range t.Buckets {
		out = append(out, dto.TaxBucketDTO{Rate: b.Rate, Taxable: b.Taxable, Tax: b.Tax})
	}
	return out
}

func invoiceToDTO(inv *entity.Invoice, customerName string, reminderStage int) *dto.InvoiceResponse {
	totals := billing.Calculate(inv.Items, inv.Discount)
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		CustomerName:  customerName,
		Number:        inv.Number,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Status:        inv.Status,
		Items:         itemsToDTO(inv.Items),
		Discount:      discountToDTO(inv.Discount),
		Notes:         inv.Notes,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		ReminderStage: reminderStage,
	}
	if len(inv.Items) > 0 {
		resp.TaxBreakdown = bucketsToDTO(totals)
	}
	return resp
}

func quoteToDTO(q *entity.Quote, customerName string) *dto.QuoteResponse {
	totals := billing.Calculate(q.Items, q.Discount)
	resp := &dto.QuoteResponse{
		ID:           q.ID,
		CustomerID:   q.CustomerID,
		CustomerName: customerName,
		Number:       q.Number,
		IssueDate:    q.IssueDate.Format(dateLayout),
		ValidUntil:   q.ValidUntil.Format(dateLayout),
		Status:       q.Status,
		Items:        itemsToDTO(q.Items),
		Discount:     discountToDTO(q.Discount),
		Notes:        q.Notes,
		Subtotal:     q.Subtotal,
		TaxAmount:    q.TaxAmount,
		Total:        q.Total,
	}
	if len(q.Items) > 0 {
		resp.TaxBreakdown = bucketsToDTO(totals)
	}
	return resp
}

func jobToDTO(job *entity.Job, customerName string) *dto.JobResponse {
	totals := billing.Calculate(billing.JobLineItems(job), nil)
	resp := &dto.JobResponse{
		ID:           job.ID,
		CustomerID:   job.CustomerID,
		CustomerName: customerName,
		Number:       job.Number,
		Title:        job.Title,
		Description:  job.Description,
		Status:       job.Status,
		Total:        totals.Total,
	}
	for _, te := range job.TimeEntries {
		resp.TimeEntries = append(resp.TimeEntries, dto.TimeEntryResponse{
			ID:          te.ID,
			Date:        te.Date.Format(dateLayout),
			Description: te.Description,
			Hours:       te.Hours,
			HourlyRate:  te.HourlyRate,
			TaxRate:     te.TaxRate,
		})
	}
	for _, m := range job.Materials {
		resp.Materials = append(resp.Materials, dto.MaterialResponse{
			ID:        m.ID,
			Name:      m.Name,
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
			TaxRate:   m.TaxRate,
		})
	}
	if job.Signature != nil {
		resp.Signed = true
		resp.SignerName = job.Signature.SignerName
		resp.SignedAt = job.Signature.SignedAt.Format(time.RFC3339)
	}
	return resp
}

func reminderToDTO(rem *entity.Reminder) *dto.ReminderResponse {
	return &dto.ReminderResponse{
		ID:        rem.ID,
		InvoiceID: rem.InvoiceID,
		Stage:     rem.Stage,
		Fee:       rem.Fee,
		Text:      rem.Text,
		IssueDate: rem.IssueDate.Format(dateLayout),
		DueDate:   rem.DueDate.Format(dateLayout),
	}
}
