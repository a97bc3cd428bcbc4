package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner führt Callbacks in einer PostgreSQL-Transaktion aus.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner baut den Runner mit dem Pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run startet eine Transaktion, ruft fn mit Tx-gebundenen Repos auf und
// macht Commit bzw. Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	jobRepo repository.JobRepository,
	reminderRepo repository.ReminderRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	quoteRepo := NewQuoteRepository(tx)
	jobRepo := NewJobRepository(tx)
	reminderRepo := NewReminderRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(invoiceRepo, quoteRepo, jobRepo, reminderRepo, seqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
