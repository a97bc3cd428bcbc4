package billing

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// CompanyUseCase verwaltet die Betriebsstammdaten. Die Installation kennt
// genau einen Betrieb; Update legt ihn beim ersten Aufruf an.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase baut den Anwendungsfall.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Get liefert die Betriebsstammdaten.
func (uc *CompanyUseCase) Get() (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetPrimary()
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return companyToDTO(company), nil
}

// Update überschreibt die Betriebsstammdaten; beim ersten Aufruf wird der
// Betrieb angelegt. Ein leeres Logo-Feld lässt das gespeicherte Logo stehen.
func (uc *CompanyUseCase) Update(in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.repo.GetPrimary()
	if err != nil {
		return nil, err
	}
	created := false
	if company == nil {
		company = &entity.Company{ID: uuid.New().String(), CreatedAt: time.Now()}
		created = true
	}

	company.Name = in.Name
	company.OwnerName = in.OwnerName
	company.Street = in.Street
	company.ZIP = in.ZIP
	company.City = in.City
	company.Country = defaultStr(in.Country, "DE")
	company.Phone = in.Phone
	company.Email = in.Email
	company.Website = in.Website
	company.TaxNumber = in.TaxNumber
	company.VATID = in.VATID
	company.IBAN = in.IBAN
	company.BIC = in.BIC
	company.BankName = in.BankName
	company.LogoURL = in.LogoURL
	company.AccentColor = in.AccentColor
	company.Locale = defaultStr(in.Locale, "de-DE")
	company.IsSmallBusiness = in.IsSmallBusiness
	company.DiscountsEnabled = in.DiscountsEnabled
	company.RemindersEnabled = in.RemindersEnabled
	for i, st := range in.ReminderStages {
		company.ReminderStages[i] = entity.ReminderStage{Fee: st.Fee, Text: st.Text}
	}
	if in.Logo != "" {
		logo, err := base64.StdEncoding.DecodeString(in.Logo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		company.Logo = logo
		company.LogoMime = defaultStr(in.LogoMime, "image/png")
	}
	company.UpdatedAt = time.Now()

	if created {
		err = uc.repo.Create(company)
	} else {
		err = uc.repo.Update(company)
	}
	if err != nil {
		return nil, err
	}
	return companyToDTO(company), nil
}

func companyToDTO(c *entity.Company) *dto.CompanyResponse {
	resp := &dto.CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		OwnerName:        c.OwnerName,
		Street:           c.Street,
		ZIP:              c.ZIP,
		City:             c.City,
		Country:          c.Country,
		Phone:            c.Phone,
		Email:            c.Email,
		Website:          c.Website,
		TaxNumber:        c.TaxNumber,
		VATID:            c.VATID,
		IBAN:             c.IBAN,
		BIC:              c.BIC,
		BankName:         c.BankName,
		HasLogo:          len(c.Logo) > 0,
		LogoURL:          c.LogoURL,
		AccentColor:      c.AccentColor,
		Locale:           c.Locale,
		IsSmallBusiness:  c.IsSmallBusiness,
		DiscountsEnabled: c.DiscountsEnabled,
		RemindersEnabled: c.RemindersEnabled,
	}
	for i, st := range c.ReminderStages {
		resp.ReminderStages[i] = dto.ReminderStageDTO{Fee: st.Fee, Text: st.Text}
	}
	return resp
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
