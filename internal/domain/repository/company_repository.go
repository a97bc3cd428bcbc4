package repository

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// CompanyRepository definiert den Persistenz-Port für die Betriebsstammdaten.
type CompanyRepository interface {
	Create(company *entity.Company) error
	// GetPrimary liefert den Betrieb der Installation, nil wenn noch keiner angelegt ist.
	GetPrimary() (*entity.Company, error)
	GetByID(id string) (*entity.Company, error)
	Update(company *entity.Company) error
}
