package repository

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// QuoteRepository definiert den Persistenz-Port für Angebote samt Positionen.
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	GetByID(id string) (*entity.Quote, error)
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Quote, error)
	// Update ersetzt Kopf und Positionen vollständig.
	Update(quote *entity.Quote) error
	UpdateStatus(id, status string) error
}
