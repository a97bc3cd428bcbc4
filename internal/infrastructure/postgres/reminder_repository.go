package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.ReminderRepository = (*ReminderRepo)(nil)

// ReminderRepo Implementierung von ReminderRepository (nutzbar mit Pool oder Tx).
type ReminderRepo struct {
	q Querier
}

// NewReminderRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewReminderRepository(q Querier) *ReminderRepo {
	return &ReminderRepo{q: q}
}

// Create persistiert eine Mahnung. UNIQUE(invoice_id, stage) verhindert
// doppelte Stufen auch bei parallelen Anfragen.
func (r *ReminderRepo) Create(rem *entity.Reminder) error {
	if rem.ID == "" {
		rem.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reminders (id, invoice_id, stage, fee, text, issue_date, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		rem.ID, rem.InvoiceID, rem.Stage, rem.Fee, rem.Text, rem.IssueDate, rem.DueDate, rem.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// GetByID liefert eine Mahnung per ID, nil wenn unbekannt.
func (r *ReminderRepo) GetByID(id string) (*entity.Reminder, error) {
	query := `SELECT id, invoice_id, stage, fee, text, issue_date, due_date, created_at
		FROM reminders WHERE id = $1`
	var rem entity.Reminder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rem.ID, &rem.InvoiceID, &rem.Stage, &rem.Fee, &rem.Text, &rem.IssueDate, &rem.DueDate, &rem.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return &rem, nil
}

// ListByInvoice listet alle Mahnungen einer Rechnung nach Stufe.
func (r *ReminderRepo) ListByInvoice(invoiceID string) ([]*entity.Reminder, error) {
	query := `SELECT id, invoice_id, stage, fee, text, issue_date, due_date, created_at
		FROM reminders WHERE invoice_id = $1 ORDER BY stage`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reminder
	for rows.Next() {
		var rem entity.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.InvoiceID, &rem.Stage, &rem.Fee, &rem.Text, &rem.IssueDate, &rem.DueDate, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		list = append(list, &rem)
	}
	return list, rows.Err()
}

// MaxStage liefert die höchste vergebene Mahnstufe einer Rechnung (0 = keine).
func (r *ReminderRepo) MaxStage(invoiceID string) (int, error) {
	var stage int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(stage), 0) FROM reminders WHERE invoice_id = $1`, invoiceID,
	).Scan(&stage)
	if err != nil {
		return 0, fmt.Errorf("max reminder stage: %w", err)
	}
	return stage, nil
}
