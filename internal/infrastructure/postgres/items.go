package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// Rechnungs- und Angebotspositionen haben dieselbe Spaltenform; die Helfer
// werden von beiden Repos mit ihrer jeweiligen Tabelle benutzt.

func insertItems(q Querier, table, fkCol, fkID string, items []entity.LineItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, position, description, quantity, unit_price, tax_rate, discount_type, discount_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, table, fkCol)
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if it.Position == 0 {
			it.Position = i + 1
		}
		dt, dv := discountCols(it.Discount)
		_, err := q.Exec(context.Background(), query,
			it.ID, fkID, it.Position, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, dt, dv,
		)
		if err != nil {
			return fmt.Errorf("insert position %d: %w", it.Position, err)
		}
	}
	return nil
}

func deleteItems(q Querier, table, fkCol, fkID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, fkCol)
	if _, err := q.Exec(context.Background(), query, fkID); err != nil {
		return fmt.Errorf("delete positionen: %w", err)
	}
	return nil
}

func loadItems(q Querier, table, fkCol, fkID string) ([]entity.LineItem, error) {
	query := fmt.Sprintf(`
		SELECT id, position, description, quantity, unit_price, tax_rate, discount_type, discount_value
		FROM %s WHERE %s = $1 ORDER BY position`, table, fkCol)
	rows, err := q.Query(context.Background(), query, fkID)
	if err != nil {
		return nil, fmt.Errorf("list positionen: %w", err)
	}
	defer rows.Close()
	var items []entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		var dt *string
		var dv *decimal.Decimal
		if err := rows.Scan(&it.ID, &it.Position, &it.Description, &it.Quantity, &it.UnitPrice, &it.TaxRate, &dt, &dv); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		it.Discount = scanDiscount(dt, dv)
		items = append(items, it)
	}
	return items, rows.Err()
}

func discountCols(d *entity.Discount) (*string, *decimal.Decimal) {
	if d == nil {
		return nil, nil
	}
	return &d.Type, &d.Value
}

func scanDiscount(t *string, v *decimal.Decimal) *entity.Discount {
	if t == nil || v == nil {
		return nil
	}
	return &entity.Discount{Type: *t, Value: *v}
}
