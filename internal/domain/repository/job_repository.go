package repository

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// JobRepository definiert den Persistenz-Port für Aufträge mit Zeiten und Material.
type JobRepository interface {
	Create(job *entity.Job) error
	GetByID(id string) (*entity.Job, error)
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Job, error)
	// Update ersetzt Kopf, Arbeitszeiten und Material vollständig.
	Update(job *entity.Job) error
	UpdateStatus(id, status string) error
	// SetSignature hinterlegt die Abnahme-Unterschrift.
	SetSignature(id string, sig *entity.Signature) error
}
