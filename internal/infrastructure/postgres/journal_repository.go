package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo schreibt das Dokumentenjournal (insert-only, GoBD).
type JournalRepo struct {
	q Querier
}

// NewJournalRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Append hängt einen Journaleintrag an.
func (r *JournalRepo) Append(rec *entity.DocumentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO document_journal (id, company_id, doc_type, doc_number, format, filename, sha256, size_bytes, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.CompanyID, rec.DocType, rec.DocNumber, rec.Format, rec.Filename,
		rec.SHA256, rec.SizeBytes, rec.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

// ListByCompany listet Journaleinträge eines Betriebs, neueste zuerst.
func (r *JournalRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.DocumentRecord, error) {
	query := `
		SELECT id, company_id, doc_type, doc_number, format, filename, sha256, size_bytes, generated_at
		FROM document_journal WHERE company_id = $1
		ORDER BY generated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentRecord
	for rows.Next() {
		var rec entity.DocumentRecord
		if err := rows.Scan(
			&rec.ID, &rec.CompanyID, &rec.DocType, &rec.DocNumber, &rec.Format, &rec.Filename,
			&rec.SHA256, &rec.SizeBytes, &rec.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
