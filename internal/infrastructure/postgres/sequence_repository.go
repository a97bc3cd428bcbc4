package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo vergibt fortlaufende Belegnummern je Betrieb, Belegart und Jahr.
// Muss mit einer Tx benutzt werden: die Zeile wird mit FOR UPDATE gesperrt,
// damit Nummern lückenlos und eindeutig bleiben.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository baut den Adapter. Tx übergeben (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next erhöht den Zähler und liefert den neuen Wert.
func (r *SequenceRepo) Next(companyID, docType string, year int) (int, error) {
	ctx := context.Background()
	var last int
	err := r.q.QueryRow(ctx,
		`SELECT last_value FROM number_sequences
		 WHERE company_id = $1 AND doc_type = $2 AND year = $3 FOR UPDATE`,
		companyID, docType, year,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		// Erste Nummer des Jahres; ON CONFLICT fängt das Rennen zweier erster Belege ab.
		_, err = r.q.Exec(ctx,
			`INSERT INTO number_sequences (company_id, doc_type, year, last_value)
			 VALUES ($1, $2, $3, 1)
			 ON CONFLICT (company_id, doc_type, year) DO UPDATE SET last_value = number_sequences.last_value + 1`,
			companyID, docType, year,
		)
		if err != nil {
			return 0, fmt.Errorf("init sequence: %w", err)
		}
		err = r.q.QueryRow(ctx,
			`SELECT last_value FROM number_sequences
			 WHERE company_id = $1 AND doc_type = $2 AND year = $3`,
			companyID, docType, year,
		).Scan(&last)
		if err != nil {
			return 0, fmt.Errorf("read sequence: %w", err)
		}
		return last, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lock sequence: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`UPDATE number_sequences SET last_value = $4
		 WHERE company_id = $1 AND doc_type = $2 AND year = $3`,
		companyID, docType, year, last+1,
	)
	if err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	return last + 1, nil
}
