package repository

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// CustomerRepository definiert den Persistenz-Port für Kunden.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
