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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo Implementierung von CustomerRepository (nutzbar mit Pool oder Tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, COALESCE(number, ''), name, contact_person, street, zip, city, country,
       phone, emails, vat_id, notes, created_at, updated_at`

// Create persistiert einen neuen Kunden.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customers (id, company_id, number, name, contact_person, street, zip, city, country,
			phone, emails, vat_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, nullIfEmpty(c.Number), c.Name, c.ContactPerson, c.Street, c.ZIP, c.City, c.Country,
		c.Phone, c.Emails, c.VATID, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID liefert einen Kunden per ID, nil wenn unbekannt.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.CompanyID, &c.Number, &c.Name, &c.ContactPerson, &c.Street, &c.ZIP, &c.City, &c.Country,
		&c.Phone, &c.Emails, &c.VATID, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListByCompany listet Kunden eines Betriebs alphabetisch, mit Paging.
func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Number, &c.Name, &c.ContactPerson, &c.Street, &c.ZIP, &c.City, &c.Country,
			&c.Phone, &c.Emails, &c.VATID, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update schreibt alle Kundenfelder.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	query := `
		UPDATE customers
		SET number = $2, name = $3, contact_person = $4, street = $5, zip = $6, city = $7, country = $8,
		    phone = $9, emails = $10, vat_id = $11, notes = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, nullIfEmpty(c.Number), c.Name, c.ContactPerson, c.Street, c.ZIP, c.City, c.Country,
		c.Phone, c.Emails, c.VATID, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete entfernt einen Kunden.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
