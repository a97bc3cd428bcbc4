package billing

import (
	"context"

	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// TxRunner führt eine Funktion in einer Transaktion aus; die übergebenen Repos
// sind an die laufende Tx gebunden. Nummernvergabe und Statuswechsel von
// Quell- und Zielbeleg müssen atomar sein.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
		jobRepo repository.JobRepository,
		reminderRepo repository.ReminderRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
