package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo Implementierung von CompanyRepository (nutzbar mit Pool oder Tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, owner_name, street, zip, city, country, phone, email, website,
       tax_number, vat_id, iban, bic, bank_name,
       logo, COALESCE(logo_mime, ''), COALESCE(logo_url, ''), accent_color, locale,
       is_small_business, discounts_enabled, reminders_enabled,
       reminder_fee_1, reminder_text_1, reminder_fee_2, reminder_text_2, reminder_fee_3, reminder_text_3,
       created_at, updated_at`

// Create legt den Betrieb an.
func (r *CompanyRepo) Create(c *entity.Company) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO companies (id, name, owner_name, street, zip, city, country, phone, email, website,
			tax_number, vat_id, iban, bic, bank_name,
			logo, logo_mime, logo_url, accent_color, locale,
			is_small_business, discounts_enabled, reminders_enabled,
			reminder_fee_1, reminder_text_1, reminder_fee_2, reminder_text_2, reminder_fee_3, reminder_text_3,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23,
			$24, $25, $26, $27, $28, $29,
			$30, $31)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.OwnerName, c.Street, c.ZIP, c.City, c.Country, c.Phone, c.Email, c.Website,
		c.TaxNumber, c.VATID, c.IBAN, c.BIC, c.BankName,
		c.Logo, nullIfEmpty(c.LogoMime), nullIfEmpty(c.LogoURL), c.AccentColor, c.Locale,
		c.IsSmallBusiness, c.DiscountsEnabled, c.RemindersEnabled,
		c.ReminderStages[0].Fee, c.ReminderStages[0].Text,
		c.ReminderStages[1].Fee, c.ReminderStages[1].Text,
		c.ReminderStages[2].Fee, c.ReminderStages[2].Text,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetPrimary liefert den Betrieb der Installation (älteste Zeile), nil wenn keiner existiert.
func (r *CompanyRepo) GetPrimary() (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query))
}

// GetByID liefert einen Betrieb per ID, nil wenn unbekannt.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update schreibt alle Stammdatenfelder.
func (r *CompanyRepo) Update(c *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, owner_name = $3, street = $4, zip = $5, city = $6, country = $7,
		    phone = $8, email = $9, website = $10,
		    tax_number = $11, vat_id = $12, iban = $13, bic = $14, bank_name = $15,
		    logo = $16, logo_mime = $17, logo_url = $18, accent_color = $19, locale = $20,
		    is_small_business = $21, discounts_enabled = $22, reminders_enabled = $23,
		    reminder_fee_1 = $24, reminder_text_1 = $25,
		    reminder_fee_2 = $26, reminder_text_2 = $27,
		    reminder_fee_3 = $28, reminder_text_3 = $29,
		    updated_at = $30
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.OwnerName, c.Street, c.ZIP, c.City, c.Country,
		c.Phone, c.Email, c.Website,
		c.TaxNumber, c.VATID, c.IBAN, c.BIC, c.BankName,
		c.Logo, nullIfEmpty(c.LogoMime), nullIfEmpty(c.LogoURL), c.AccentColor, c.Locale,
		c.IsSmallBusiness, c.DiscountsEnabled, c.RemindersEnabled,
		c.ReminderStages[0].Fee, c.ReminderStages[0].Text,
		c.ReminderStages[1].Fee, c.ReminderStages[1].Text,
		c.ReminderStages[2].Fee, c.ReminderStages[2].Text,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) scanOne(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.OwnerName, &c.Street, &c.ZIP, &c.City, &c.Country, &c.Phone, &c.Email, &c.Website,
		&c.TaxNumber, &c.VATID, &c.IBAN, &c.BIC, &c.BankName,
		&c.Logo, &c.LogoMime, &c.LogoURL, &c.AccentColor, &c.Locale,
		&c.IsSmallBusiness, &c.DiscountsEnabled, &c.RemindersEnabled,
		&c.ReminderStages[0].Fee, &c.ReminderStages[0].Text,
		&c.ReminderStages[1].Fee, &c.ReminderStages[1].Text,
		&c.ReminderStages[2].Fee, &c.ReminderStages[2].Text,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}
