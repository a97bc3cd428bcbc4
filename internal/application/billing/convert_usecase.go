package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// ConvertUseCase überführt Angebote und Aufträge in Rechnungen.
// Nummernvergabe, Anlage der Rechnung und Statuswechsel des Quellbelegs
// laufen in einer Transaktion.
type ConvertUseCase struct {
	txRunner     TxRunner
	quoteRepo    repository.QuoteRepository
	jobRepo      repository.JobRepository
	customerRepo repository.CustomerRepository
}

// NewConvertUseCase baut den Anwendungsfall.
func NewConvertUseCase(
	txRunner TxRunner,
	quoteRepo repository.QuoteRepository,
	jobRepo repository.JobRepository,
	customerRepo repository.CustomerRepository,
) *ConvertUseCase {
	return &ConvertUseCase{
		txRunner:     txRunner,
		quoteRepo:    quoteRepo,
		jobRepo:      jobRepo,
		customerRepo: customerRepo,
	}
}

// QuoteToInvoice erzeugt aus einem angenommenen Angebot eine Rechnung.
// Positionen und Rabatt werden übernommen, das Angebot wird invoiced.
func (uc *ConvertUseCase) QuoteToInvoice(ctx context.Context, companyID, quoteID string) (*dto.InvoiceResponse, error) {
	q, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !billing.QuoteTransitionAllowed(q.Status, entity.QuoteStatusInvoiced) {
		return nil, domain.ErrInvalidTransition
	}

	items := make([]entity.LineItem, len(q.Items))
	copy(items, q.Items)
	for i := range items {
		items[i].ID = "" // neue Positions-IDs für die Rechnung
	}
	inv := uc.newInvoice(companyID, q.CustomerID, items, q.Discount, q.Notes)

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
		_ repository.JobRepository,
		_ repository.ReminderRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := nextNumber(seqRepo, companyID, entity.DocTypeInvoice, inv.IssueDate)
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		return quoteRepo.UpdateStatus(q.ID, entity.QuoteStatusInvoiced)
	})
	if err != nil {
		return nil, err
	}
	return invoiceToDTO(inv, uc.customerName(q.CustomerID), 0), nil
}

// JobToInvoice rechnet einen abgeschlossenen Auftrag ab: Arbeitszeiten und
// Material werden zu Positionen, der Auftrag wird invoiced (endgültig).
func (uc *ConvertUseCase) JobToInvoice(ctx context.Context, companyID, jobID string) (*dto.InvoiceResponse, error) {
	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !billing.JobTransitionAllowed(job.Status, entity.JobStatusInvoiced) {
		return nil, domain.ErrInvalidTransition
	}

	items := billing.JobLineItems(job)
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	notes := "Abrechnung zu Auftrag " + job.Number
	if job.Title != "" {
		notes += " – " + job.Title
	}
	inv := uc.newInvoice(companyID, job.CustomerID, items, nil, notes)

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuoteRepository,
		jobRepo repository.JobRepository,
		_ repository.ReminderRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := nextNumber(seqRepo, companyID, entity.DocTypeInvoice, inv.IssueDate)
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		return jobRepo.UpdateStatus(job.ID, entity.JobStatusInvoiced)
	})
	if err != nil {
		return nil, err
	}
	return invoiceToDTO(inv, uc.customerName(job.CustomerID), 0), nil
}

func (uc *ConvertUseCase) newInvoice(companyID, customerID string, items []entity.LineItem, discount *entity.Discount, notes string) *entity.Invoice {
	totals := billing.Calculate(items, discount)
	now := time.Now()
	return &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: customerID,
		IssueDate:  now,
		DueDate:    now.AddDate(0, 0, defaultDueDays),
		Items:      items,
		Discount:   discount,
		Notes:      notes,
		Status:     entity.InvoiceStatusDraft,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (uc *ConvertUseCase) customerName(customerID string) string {
	if customer, _ := uc.customerRepo.GetByID(customerID); customer != nil {
		return customer.Name
	}
	return ""
}
