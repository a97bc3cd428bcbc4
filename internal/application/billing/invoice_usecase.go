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

// Standard-Zahlungsziel in Tagen, wenn der Request keines nennt.
const defaultDueDays = 14

// InvoiceUseCase Anwendungsfälle rund um Rechnungen.
type InvoiceUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	reminderRepo repository.ReminderRepository
}

// NewInvoiceUseCase baut den Anwendungsfall.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	reminderRepo repository.ReminderRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		reminderRepo: reminderRepo,
	}
}

// Create legt eine Rechnung im Status draft an. Die Rechnungsnummer wird in
// derselben Transaktion lückenlos vergeben.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
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
	dueDate, err := parseDate(in.DueDate, issueDate.AddDate(0, 0, defaultDueDays))
	if err != nil {
		return nil, err
	}
	if dueDate.Before(issueDate) {
		return nil, domain.ErrInvalidInput
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
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Items:      items,
		Discount:   discount,
		Notes:      in.Notes,
		Status:     entity.InvoiceStatusDraft,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuoteRepository,
		_ repository.JobRepository,
		_ repository.ReminderRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := nextNumber(seqRepo, companyID, entity.DocTypeInvoice, issueDate)
		if err != nil {
			return err
		}
		inv.Number = number
		return invoiceRepo.Create(inv)
	})
	if err != nil {
		return nil, err
	}
	return invoiceToDTO(inv, customer.Name, 0), nil
}

// Get liefert eine Rechnung mit Positionen, Steueraufschlüsselung und Mahnstand.
func (uc *InvoiceUseCase) Get(companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	stage, err := uc.reminderRepo.MaxStage(inv.ID)
	if err != nil {
		return nil, err
	}
	return invoiceToDTO(inv, customerName, stage), nil
}

// List listet Rechnungen des Betriebs, optional nach Status gefiltert.
func (uc *InvoiceUseCase) List(companyID, status string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, invoiceToDTO(inv, "", 0))
	}
	return out, nil
}

// ListOverdue liefert offene Rechnungen mit überschrittenem Zahlungsziel
// (Grundlage der Mahnliste).
func (uc *InvoiceUseCase) ListOverdue(companyID string) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.ListOverdue(companyID, time.Now())
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		stage, err := uc.reminderRepo.MaxStage(inv.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, invoiceToDTO(inv, "", stage))
	}
	return out, nil
}

// Update überschreibt eine Rechnung im Status draft; Nummer und Status bleiben.
// Gestellte Rechnungen sind unveränderlich (GoBD), Korrekturen laufen über Storno.
func (uc *InvoiceUseCase) Update(companyID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return nil, domain.ErrConflict
	}
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, company, err := uc.loadParties(companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	issueDate, err := parseDate(in.IssueDate, inv.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(in.DueDate, inv.DueDate)
	if err != nil {
		return nil, err
	}
	if dueDate.Before(issueDate) {
		return nil, domain.ErrInvalidInput
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

	inv.CustomerID = in.CustomerID
	inv.IssueDate = issueDate
	inv.DueDate = dueDate
	inv.Items = items
	inv.Discount = discount
	inv.Notes = in.Notes
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return invoiceToDTO(inv, customer.Name, 0), nil
}

// UpdateStatus wechselt den Rechnungsstatus entlang der erlaubten Übergänge.
func (uc *InvoiceUseCase) UpdateStatus(companyID, id, status string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !billing.InvoiceTransitionAllowed(inv.Status, status) {
		return nil, domain.ErrInvalidTransition
	}
	if err := uc.invoiceRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	inv.Status = status
	return invoiceToDTO(inv, "", 0), nil
}

func (uc *InvoiceUseCase) loadParties(companyID, customerID string) (*entity.Customer, *entity.Company, error) {
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
