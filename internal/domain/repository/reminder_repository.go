package repository

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// ReminderRepository definiert den Persistenz-Port für Mahnungen.
type ReminderRepository interface {
	Create(reminder *entity.Reminder) error
	GetByID(id string) (*entity.Reminder, error)
	ListByInvoice(invoiceID string) ([]*entity.Reminder, error)
	// MaxStage liefert die höchste vergebene Mahnstufe einer Rechnung (0 = keine).
	MaxStage(invoiceID string) (int, error)
}
