package repository

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// JournalRepository definiert den Persistenz-Port für das Dokumentenjournal.
// Es gibt bewusst kein Update und kein Delete.
type JournalRepository interface {
	Append(rec *entity.DocumentRecord) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.DocumentRecord, error)
}
