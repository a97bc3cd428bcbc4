package billing

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// JobUseCase Anwendungsfälle rund um Aufträge.
type JobUseCase struct {
	txRunner     TxRunner
	jobRepo      repository.JobRepository
	customerRepo repository.CustomerRepository
}

// NewJobUseCase baut den Anwendungsfall.
func NewJobUseCase(
	txRunner TxRunner,
	jobRepo repository.JobRepository,
	customerRepo repository.CustomerRepository,
) *JobUseCase {
	return &JobUseCase{txRunner: txRunner, jobRepo: jobRepo, customerRepo: customerRepo}
}

// Create legt einen Auftrag im Status draft an.
func (uc *JobUseCase) Create(ctx context.Context, companyID string, in dto.CreateJobRequest) (*dto.JobResponse, error) {
	if in.CustomerID == "" || in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	timeEntries, materials, err := jobPositionsFromDTO(in.TimeEntries, in.Materials)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &entity.Job{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CustomerID:  in.CustomerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      entity.JobStatusDraft,
		TimeEntries: timeEntries,
		Materials:   materials,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.InvoiceRepository,
		_ repository.QuoteRepository,
		jobRepo repository.JobRepository,
		_ repository.ReminderRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := nextNumber(seqRepo, companyID, entity.DocTypeJob, now)
		if err != nil {
			return err
		}
		job.Number = number
		return jobRepo.Create(job)
	})
	if err != nil {
		return nil, err
	}
	return jobToDTO(job, customer.Name), nil
}

// Get liefert einen Auftrag mit Zeiten und Material.
func (uc *JobUseCase) Get(companyID, id string) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(job.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return jobToDTO(job, customerName), nil
}

// List listet Aufträge, optional nach Status gefiltert.
func (uc *JobUseCase) List(companyID, status string, limit, offset int) ([]*dto.JobResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.jobRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.JobResponse, 0, len(list))
	for _, job := range list {
		out = append(out, jobToDTO(job, ""))
	}
	return out, nil
}

// Update überschreibt einen Auftrag; abgerechnete Aufträge sind unveränderlich.
func (uc *JobUseCase) Update(companyID, id string, in dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if job.Status == entity.JobStatusInvoiced {
		return nil, domain.ErrConflict
	}
	if in.CustomerID == "" || in.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	timeEntries, materials, err := jobPositionsFromDTO(in.TimeEntries, in.Materials)
	if err != nil {
		return nil, err
	}
	job.CustomerID = in.CustomerID
	job.Title = in.Title
	job.Description = in.Description
	job.TimeEntries = timeEntries
	job.Materials = materials
	job.UpdatedAt = time.Now()
	if err := uc.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return jobToDTO(job, customer.Name), nil
}

// UpdateStatus wechselt den Auftragsstatus; nur vorwärts, invoiced ist endgültig
// und wird ausschließlich über die Konvertierung erreicht.
func (uc *JobUseCase) UpdateStatus(companyID, id, status string) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if status == entity.JobStatusInvoiced || !billing.JobTransitionAllowed(job.Status, status) {
		return nil, domain.ErrInvalidTransition
	}
	if err := uc.jobRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	job.Status = status
	return jobToDTO(job, ""), nil
}

// Sign hinterlegt die Kundenunterschrift (Abnahme). Eine vorhandene
// Unterschrift wird nicht überschrieben.
func (uc *JobUseCase) Sign(companyID, id string, in dto.SignatureRequest) (*dto.JobResponse, error) {
	if in.Image == "" || in.SignerName == "" {
		return nil, domain.ErrInvalidInput
	}
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if job.Signature != nil {
		return nil, domain.ErrConflict
	}
	img, err := base64.StdEncoding.DecodeString(in.Image)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	sig := &entity.Signature{Image: img, SignerName: in.SignerName, SignedAt: time.Now()}
	if err := uc.jobRepo.SetSignature(id, sig); err != nil {
		return nil, err
	}
	job.Signature = sig
	return jobToDTO(job, ""), nil
}

func jobPositionsFromDTO(times []dto.TimeEntryRequest, materials []dto.MaterialRequest) ([]entity.TimeEntry, []entity.Material, error) {
	timeEntries := make([]entity.TimeEntry, 0, len(times))
	for _, te := range times {
		date, err := parseDate(te.Date, time.Now())
		if err != nil {
			return nil, nil, err
		}
		if te.Hours.Sign() < 0 || te.HourlyRate.Sign() < 0 {
			return nil, nil, domain.ErrInvalidInput
		}
		timeEntries = append(timeEntries, entity.TimeEntry{
			Date:        date,
			Description: te.Description,
			Hours:       te.Hours,
			HourlyRate:  te.HourlyRate,
			TaxRate:     te.TaxRate,
		})
	}
	mats := make([]entity.Material, 0, len(materials))
	for _, m := range materials {
		if m.Name == "" || m.Quantity.Sign() < 0 {
			return nil, nil, domain.ErrInvalidInput
		}
		mats = append(mats, entity.Material{
			Name:      m.Name,
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
			TaxRate:   m.TaxRate,
		})
	}
	return timeEntries, mats, nil
}
