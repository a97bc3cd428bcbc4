package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo Implementierung von QuoteRepository (nutzbar mit Pool oder Tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, company_id, customer_id, number, issue_date, valid_until,
       discount_type, discount_value, notes, status, subtotal, tax_amount, total,
       created_at, updated_at`

// Create persistiert Kopf und Positionen des Angebots.
func (r *QuoteRepo) Create(qt *entity.Quote) error {
	if qt.ID == "" {
		qt.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	dt, dv := discountCols(qt.Discount)
	_, err := r.q.Exec(context.Background(), query,
		qt.ID, qt.CompanyID, qt.CustomerID, qt.Number, qt.IssueDate, qt.ValidUntil,
		dt, dv, qt.Notes, qt.Status, qt.Subtotal, qt.TaxAmount, qt.Total,
		qt.CreatedAt, qt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return insertItems(r.q, "quote_items", "quote_id", qt.ID, qt.Items)
}

// GetByID liefert das Angebot mit allen Positionen, nil wenn unbekannt.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	qt, err := scanQuote(r.q.QueryRow(context.Background(), query, id))
	if err != nil || qt == nil {
		return qt, err
	}
	qt.Items, err = loadItems(r.q, "quote_items", "quote_id", qt.ID)
	if err != nil {
		return nil, err
	}
	return qt, nil
}

// ListByCompany listet Angebote eines Betriebs, optional nach Status gefiltert, neueste zuerst.
func (r *QuoteRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY issue_date DESC, number DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		var qt entity.Quote
		var dt *string
		var dv *decimal.Decimal
		if err := rows.Scan(
			&qt.ID, &qt.CompanyID, &qt.CustomerID, &qt.Number, &qt.IssueDate, &qt.ValidUntil,
			&dt, &dv, &qt.Notes, &qt.Status, &qt.Subtotal, &qt.TaxAmount, &qt.Total,
			&qt.CreatedAt, &qt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		qt.Discount = scanDiscount(dt, dv)
		list = append(list, &qt)
	}
	return list, rows.Err()
}

// Update ersetzt Kopf und Positionen vollständig.
func (r *QuoteRepo) Update(qt *entity.Quote) error {
	query := `
		UPDATE quotes
		SET customer_id = $2, number = $3, issue_date = $4, valid_until = $5,
		    discount_type = $6, discount_value = $7, notes = $8, status = $9,
		    subtotal = $10, tax_amount = $11, total = $12, updated_at = $13
		WHERE id = $1`
	dt, dv := discountCols(qt.Discount)
	_, err := r.q.Exec(context.Background(), query,
		qt.ID, qt.CustomerID, qt.Number, qt.IssueDate, qt.ValidUntil,
		dt, dv, qt.Notes, qt.Status,
		qt.Subtotal, qt.TaxAmount, qt.Total, qt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update quote: %w", err)
	}
	if err := deleteItems(r.q, "quote_items", "quote_id", qt.ID); err != nil {
		return err
	}
	return insertItems(r.q, "quote_items", "quote_id", qt.ID, qt.Items)
}

// UpdateStatus setzt nur den Status.
func (r *QuoteRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE quotes SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var qt entity.Quote
	var dt *string
	var dv *decimal.Decimal
	err := row.Scan(
		&qt.ID, &qt.CompanyID, &qt.CustomerID, &qt.Number, &qt.IssueDate, &qt.ValidUntil,
		&dt, &dv, &qt.Notes, &qt.Status, &qt.Subtotal, &qt.TaxAmount, &qt.Total,
		&qt.CreatedAt, &qt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	qt.Discount = scanDiscount(dt, dv)
	return &qt, nil
}
