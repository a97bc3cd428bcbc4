package repository

import (
	"time"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// InvoiceRepository definiert den Persistenz-Port für Rechnungen samt Positionen.
type InvoiceRepository interface {
	// Create persistiert Kopf und Positionen.
	Create(invoice *entity.Invoice) error
	// GetByID liefert die Rechnung mit allen Positionen, nil wenn unbekannt.
	GetByID(id string) (*entity.Invoice, error)
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Invoice, error)
	// ListOverdue liefert offene Rechnungen mit überschrittenem Zahlungsziel.
	ListOverdue(companyID string, asOf time.Time) ([]*entity.Invoice, error)
	// ListByIssueYear liefert alle Rechnungen eines Jahres samt Positionen
	// (für Auswertungen).
	ListByIssueYear(companyID string, year int) ([]*entity.Invoice, error)
	// Update ersetzt Kopf und Positionen vollständig.
	Update(invoice *entity.Invoice) error
	UpdateStatus(id, status string) error
}
