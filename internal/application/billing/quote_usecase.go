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

// Standard-Gültigkeit eines Angebots in Tagen.
const defaultValidDays = 30

// QuoteUseCase Anwendungsfälle rund um Angebote.
type QuoteUseCase struct {
	txRunner     TxRunner
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
}

// NewQuoteUseCase baut den Anwendungsfall.
func NewQuoteUseCase(
	txRunner TxRunner,
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
) *QuoteUseCase {
	return &QuoteUseCase{
		txRunner:     txRunner,
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
	}
}

// Create legt ein Angebot an; die Angebotsnummer wird lückenlos vergeben.
func (uc *QuoteUseCase) Create(ctx context.Context, companyID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, company, err := uc.loadParties(companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	issueDate, err := parseDate(in.IssueDate, time.Now())
	if err != nil {
		return nil, err
	}
	validUntil, err := parseDate(in.ValidUntil, issueDate.AddDate(0, 0, defaultValidDays))
	if err != nil {
		return nil, err
	}

	items, err := itemsFromDTO(in.Items, company.DiscountsEnabled)
	if err != nil {
		return nil, err
	}
	var discount *entity.Discount
	if company.DiscountsEnabled {
		discount = discountFromDTO(in.Discount)
	}
	totals := billing.Calculate(items, discount)

	now := time.Now()
	q := &entity.Quote{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		IssueDate:  issueDate,
		ValidUntil: validUntil,
		Items:      items,
		Discount:   discount,
		Notes:      in.Notes,
		Status:     entity.QuoteStatusDraft,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
		_ repository.JobRepository,
		_ repository.ReminderRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := nextNumber(seqRepo, companyID, entity.DocTypeQuote, issueDate)
		if err != nil {
			return err
		}
		q.Number = number
		return quoteRepo.Create(q)
	})
	if err != nil {
		return nil, err
	}
	return quoteToDTO(q, customer.Name), nil
}

// Get liefert ein Angebot mit Positionen.
func (uc *QuoteUseCase) Get(companyID, id string) (*dto.QuoteResponse, error) {
	q, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(q.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return quoteToDTO(q, customerName), nil
}

// List listet Angebote, optional nach Status gefiltert.
func (uc *QuoteUseCase) List(companyID, status string, limit, offset int) ([]*dto.QuoteResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.quoteRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		out = append(out, quoteToDTO(q, ""))
	}
	return out, nil
}

// Update überschreibt ein Angebot im Status draft oder sent.
func (uc *QuoteUseCase) Update(companyID, id string, in dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	q, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if q.Status != entity.QuoteStatusDraft && q.Status != entity.QuoteStatusSent {
		return nil, domain.ErrConflict
	}
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, company, err := uc.loadParties(companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	issueDate, err := parseDate(in.IssueDate, q.IssueDate)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseDate(in.ValidUntil, q.ValidUntil)
	if err != nil {
		return nil, err
	}
	items, err := itemsFromDTO(in.Items, company.DiscountsEnabled)
	if err != nil {
		return nil, err
	}
	var discount *entity.Discount
	if company.DiscountsEnabled {
		discount = discountFromDTO(in.Discount)
	}
	totals := billing.Calculate(items, discount)

	q.CustomerID = in.CustomerID
	q.IssueDate = issueDate
	q.ValidUntil = validUntil
	q.Items = items
	q.Discount = discount
	q.Notes = in.Notes
	q.Subtotal = totals.Subtotal
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
	q.UpdatedAt = time.Now()
	if err := uc.quoteRepo.Update(q); err != nil {
		return nil, err
	}
	return quoteToDTO(q, customer.Name), nil
}

// UpdateStatus wechselt den Angebotsstatus entlang der erlaubten Übergänge.
// Der Übergang nach invoiced läuft ausschließlich über die Konvertierung.
func (uc *QuoteUseCase) UpdateStatus(companyID, id, status string) (*dto.QuoteResponse, error) {
	q, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if status == entity.QuoteStatusInvoiced || !billing.QuoteTransitionAllowed(q.Status, status) {
		return nil, domain.ErrInvalidTransition
	}
	if err := uc.quoteRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	q.Status = status
	return quoteToDTO(q, ""), nil
}

func (uc *QuoteUseCase) loadParties(companyID, customerID string) (*entity.Customer, *entity.Company, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	return customer, company, nil
}
