package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// CustomerUseCase Anwendungsfälle rund um Kunden.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase baut den Anwendungsfall.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create legt einen neuen Kunden an.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Number:        in.Number,
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Street:        in.Street,
		ZIP:           in.ZIP,
		City:          in.City,
		Country:       in.Country,
		Phone:         in.Phone,
		Emails:        in.Emails,
		VATID:         in.VATID,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return customerToDTO(customer), nil
}

// Get liefert einen Kunden des Betriebs.
func (uc *CustomerUseCase) Get(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return customerToDTO(customer), nil
}

// List listet die Kunden des Betriebs.
func (uc *CustomerUseCase) List(companyID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, customerToDTO(c))
	}
	return out, nil
}

// Update überschreibt die Kundendaten.
func (uc *CustomerUseCase) Update(companyID, id string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	customer.Number = in.Number
	customer.Name = in.Name
	customer.ContactPerson = in.ContactPerson
	customer.Street = in.Street
	customer.ZIP = in.ZIP
	customer.City = in.City
	customer.Country = in.Country
	customer.Phone = in.Phone
	customer.Emails = in.Emails
	customer.VATID = in.VATID
	customer.Notes = in.Notes
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return customerToDTO(customer), nil
}

// Delete entfernt einen Kunden.
func (uc *CustomerUseCase) Delete(companyID, id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil || customer.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func customerToDTO(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID,
		Number:        c.Number,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Street:        c.Street,
		ZIP:           c.ZIP,
		City:          c.City,
		Country:       c.Country,
		Phone:         c.Phone,
		Emails:        c.Emails,
		VATID:         c.VATID,
		Notes:         c.Notes,
	}
}
