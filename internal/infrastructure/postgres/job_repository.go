package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jnamyslo/belego-api/internal/domain"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo Implementierung von JobRepository (nutzbar mit Pool oder Tx).
type JobRepo struct {
	q Querier
}

// NewJobRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, company_id, customer_id, number, title, description, status,
       signature_image, COALESCE(signature_name, ''), signed_at, created_at, updated_at`

// Create persistiert den Auftrag mit Arbeitszeiten und Material.
func (r *JobRepo) Create(job *entity.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	query := `
		INSERT INTO jobs (id, company_id, customer_id, number, title, description, status,
			signature_image, signature_name, signed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	img, name, signedAt := signatureCols(job.Signature)
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.CompanyID, job.CustomerID, job.Number, job.Title, job.Description, job.Status,
		img, name, signedAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert job: %w", err)
	}
	if err := r.insertTimeEntries(job.ID, job.TimeEntries); err != nil {
		return err
	}
	return r.insertMaterials(job.ID, job.Materials)
}

// GetByID liefert den Auftrag mit Zeiten, Material und Unterschrift, nil wenn unbekannt.
func (r *JobRepo) GetByID(id string) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.q.QueryRow(context.Background(), query, id))
	if err != nil || job == nil {
		return job, err
	}
	if job.TimeEntries, err = r.loadTimeEntries(job.ID); err != nil {
		return nil, err
	}
	if job.Materials, err = r.loadMaterials(job.ID); err != nil {
		return nil, err
	}
	return job, nil
}

// ListByCompany listet Aufträge eines Betriebs, optional nach Status gefiltert, neueste zuerst.
// Zeiten und Material werden aus Kostengründen nicht mitgeladen.
func (r *JobRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Job
	for rows.Next() {
		job, err := scanJobFromRows(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, job)
	}
	return list, rows.Err()
}

// Update ersetzt Kopf, Arbeitszeiten und Material vollständig.
func (r *JobRepo) Update(job *entity.Job) error {
	query := `
		UPDATE jobs
		SET customer_id = $2, number = $3, title = $4, description = $5, status = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.CustomerID, job.Number, job.Title, job.Description, job.Status, job.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update job: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM job_time_entries WHERE job_id = $1`, job.ID); err != nil {
		return fmt.Errorf("delete time entries: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM job_materials WHERE job_id = $1`, job.ID); err != nil {
		return fmt.Errorf("delete materials: %w", err)
	}
	if err := r.insertTimeEntries(job.ID, job.TimeEntries); err != nil {
		return err
	}
	return r.insertMaterials(job.ID, job.Materials)
}

// UpdateStatus setzt nur den Status.
func (r *JobRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// SetSignature hinterlegt die Abnahme-Unterschrift.
func (r *JobRepo) SetSignature(id string, sig *entity.Signature) error {
	img, name, signedAt := signatureCols(sig)
	_, err := r.q.Exec(context.Background(),
		`UPDATE jobs SET signature_image = $2, signature_name = $3, signed_at = $4, updated_at = now() WHERE id = $1`,
		id, img, name, signedAt)
	if err != nil {
		return fmt.Errorf("set job signature: %w", err)
	}
	return nil
}

func (r *JobRepo) insertTimeEntries(jobID string, entries []entity.TimeEntry) error {
	query := `
		INSERT INTO job_time_entries (id, job_id, date, description, hours, hourly_rate, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range entries {
		te := &entries[i]
		if te.ID == "" {
			te.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(context.Background(), query,
			te.ID, jobID, te.Date, te.Description, te.Hours, te.HourlyRate, te.TaxRate,
		); err != nil {
			return fmt.Errorf("insert time entry: %w", err)
		}
	}
	return nil
}

func (r *JobRepo) insertMaterials(jobID string, materials []entity.Material) error {
	query := `
		INSERT INTO job_materials (id, job_id, name, quantity, unit_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range materials {
		m := &materials[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(context.Background(), query,
			m.ID, jobID, m.Name, m.Quantity, m.UnitPrice, m.TaxRate,
		); err != nil {
			return fmt.Errorf("insert material: %w", err)
		}
	}
	return nil
}

func (r *JobRepo) loadTimeEntries(jobID string) ([]entity.TimeEntry, error) {
	query := `SELECT id, date, description, hours, hourly_rate, tax_rate
		FROM job_time_entries WHERE job_id = $1 ORDER BY date, id`
	rows, err := r.q.Query(context.Background(), query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()
	var list []entity.TimeEntry
	for rows.Next() {
		var te entity.TimeEntry
		if err := rows.Scan(&te.ID, &te.Date, &te.Description, &te.Hours, &te.HourlyRate, &te.TaxRate); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		list = append(list, te)
	}
	return list, rows.Err()
}

func (r *JobRepo) loadMaterials(jobID string) ([]entity.Material, error) {
	query := `SELECT id, name, quantity, unit_price, tax_rate
		FROM job_materials WHERE job_id = $1 ORDER BY name, id`
	rows, err := r.q.Query(context.Background(), query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Quantity, &m.UnitPrice, &m.TaxRate); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func signatureCols(sig *entity.Signature) (img []byte, name *string, signedAt *time.Time) {
	if sig == nil {
		return nil, nil, nil
	}
	return sig.Image, &sig.SignerName, &sig.SignedAt
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	var job entity.Job
	var sigImg []byte
	var sigName string
	var signedAt *time.Time
	err := row.Scan(
		&job.ID, &job.CompanyID, &job.CustomerID, &job.Number, &job.Title, &job.Description, &job.Status,
		&sigImg, &sigName, &signedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	job.Signature = buildSignature(sigImg, sigName, signedAt)
	return &job, nil
}

func scanJobFromRows(rows pgx.Rows) (*entity.Job, error) {
	var job entity.Job
	var sigImg []byte
	var sigName string
	var signedAt *time.Time
	if err := rows.Scan(
		&job.ID, &job.CompanyID, &job.CustomerID, &job.Number, &job.Title, &job.Description, &job.Status,
		&sigImg, &sigName, &signedAt, &job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Signature = buildSignature(sigImg, sigName, signedAt)
	return &job, nil
}

func buildSignature(img []byte, name string, signedAt *time.Time) *entity.Signature {
	if len(img) == 0 {
		return nil
	}
	sig := &entity.Signature{Image: img, SignerName: name}
	if signedAt != nil {
		sig.SignedAt = *signedAt
	}
	return sig
}
