package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo Implementierung von InvoiceRepository (nutzbar mit Pool oder Tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, customer_id, number, issue_date, due_date,
       discount_type, discount_value, notes, status, subtotal, tax_amount, total,
       created_at, updated_at`

// Create persistiert Kopf und Positionen der Rechnung.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	dt, dv := discountCols(inv.Discount)
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.CompanyID, inv.CustomerID, inv.Number, inv.IssueDate, inv.DueDate,
		dt, dv, inv.Notes, inv.Status, inv.Subtotal, inv.TaxAmount, inv.Total,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return insertItems(r.q, "invoice_items", "invoice_id", inv.ID, inv.Items)
}

// GetByID liefert die Rechnung mit allen Positionen, nil wenn unbekannt.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil || inv == nil {
		return inv, err
	}
	inv.Items, err = loadItems(r.q, "invoice_items", "invoice_id", inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListByCompany listet Rechnungen eines Betriebs, optional nach Status gefiltert,
// neueste zuerst. Positionen werden aus Kostengründen nicht mitgeladen.
func (r *InvoiceRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY issue_date DESC, number DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListOverdue liefert offene Rechnungen mit überschrittenem Zahlungsziel, älteste zuerst.
func (r *InvoiceRepo) ListOverdue(companyID string, asOf time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 AND status = $2 AND due_date < $3
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, companyID, entity.InvoiceStatusOpen, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overdue invoices: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// ListByIssueYear liefert alle Rechnungen eines Jahres samt Positionen,
// chronologisch. Basis für den Umsatzbericht.
func (r *InvoiceRepo) ListByIssueYear(companyID string, year int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 AND date_part('year', issue_date) = $2
		ORDER BY issue_date, number`
	rows, err := r.q.Query(context.Background(), query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("list invoices by year: %w", err)
	}
	defer rows.Close()
	list, err := collectInvoices(rows)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		if inv.Items, err = loadItems(r.q, "invoice_items", "invoice_id", inv.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update ersetzt Kopf und Positionen vollständig.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2, number = $3, issue_date = $4, due_date = $5,
		    discount_type = $6, discount_value = $7, notes = $8, status = $9,
		    subtotal = $10, tax_amount = $11, total = $12, updated_at = $13
		WHERE id = $1`
	dt, dv := discountCols(inv.Discount)
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.CustomerID, inv.Number, inv.IssueDate, inv.DueDate,
		dt, dv, inv.Notes, inv.Status,
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if err := deleteItems(r.q, "invoice_items", "invoice_id", inv.ID); err != nil {
		return err
	}
	return insertItems(r.q, "invoice_items", "invoice_id", inv.ID, inv.Items)
}

// UpdateStatus setzt nur den Status.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var dt *string
	var dv *decimal.Decimal
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.DueDate,
		&dt, &dv, &inv.Notes, &inv.Status, &inv.Subtotal, &inv.TaxAmount, &inv.Total,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Discount = scanDiscount(dt, dv)
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var dt *string
		var dv *decimal.Decimal
		if err := rows.Scan(
			&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.DueDate,
			&dt, &dv, &inv.Notes, &inv.Status, &inv.Subtotal, &inv.TaxAmount, &inv.Total,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Discount = scanDiscount(dt, dv)
		list = append(list, &inv)
	}
	return list, rows.Err()
}
