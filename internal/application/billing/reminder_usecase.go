package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// ReminderUseCase Mahnwesen: Stufen 1..3 je Rechnung, Gebühr und Text je
// Stufe aus den Betriebsstammdaten.
type ReminderUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.InvoiceRepository
	reminderRepo repository.ReminderRepository
	companyRepo  repository.CompanyRepository
}

// NewReminderUseCase baut den Anwendungsfall.
func NewReminderUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	reminderRepo repository.ReminderRepository,
	companyRepo repository.CompanyRepository,
) *ReminderUseCase {
	return &ReminderUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		reminderRepo: reminderRepo,
		companyRepo:  companyRepo,
	}
}

// Create legt die nächste Mahnstufe zu einer überfälligen Rechnung an.
// Voraussetzungen: Mahnwesen aktiv, Rechnung offen und überfällig,
// höchste Stufe noch nicht erreicht.
func (uc *ReminderUseCase) Create(ctx context.Context, companyID, invoiceID string, in dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if !company.RemindersEnabled {
		return nil, domain.ErrRemindersDisabled
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	issueDate, err := parseDate(in.IssueDate, time.Now())
	if err != nil {
		return nil, err
	}
	if !inv.Overdue(issueDate) {
		return nil, domain.ErrNotOverdue
	}
	dueDays := in.DueDays
	if dueDays <= 0 {
		dueDays = defaultDueDays
	}

	var rem *entity.Reminder
	err = uc.txRunner.Run(ctx, func(
		_ repository.InvoiceRepository,
		_ repository.QuoteRepository,
		_ repository.JobRepository,
		reminderRepo repository.ReminderRepository,
		_ repository.SequenceRepository,
	) error {
		last, err := reminderRepo.MaxStage(invoiceID)
		if err != nil {
			return err
		}
		stage := last + 1
		if stage > entity.MaxReminderStage {
			return domain.ErrReminderStageLimit
		}
		cfg := company.ReminderStages[stage-1]
		rem = &entity.Reminder{
			ID:        uuid.New().String(),
			InvoiceID: invoiceID,
			Stage:     stage,
			Fee:       cfg.Fee,
			Text:      cfg.Text,
			IssueDate: issueDate,
			DueDate:   issueDate.AddDate(0, 0, dueDays),
			CreatedAt: time.Now(),
		}
		return reminderRepo.Create(rem)
	})
	if err != nil {
		return nil, err
	}
	return reminderToDTO(rem), nil
}

// List listet die Mahnungen einer Rechnung, aufsteigend nach Stufe.
func (uc *ReminderUseCase) List(companyID, invoiceID string) ([]*dto.ReminderResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.reminderRepo.ListByInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReminderResponse, 0, len(list))
	for _, rem := range list {
		out = append(out, reminderToDTO(rem))
	}
	return out, nil
}
