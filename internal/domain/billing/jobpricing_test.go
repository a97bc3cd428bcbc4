package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// TestJobLineItems_ZeitenDannMaterial: Arbeitszeiten kommen vor Material,
// Positionen sind durchnummeriert, Stunden × Satz ergibt den Positionswert.
func TestJobLineItems_ZeitenDannMaterial(t *testing.T) {
	job := &entity.Job{
		Number: "AU-2025-0007",
		TimeEntries: []entity.TimeEntry{
			{Description: "Demontage Altanlage", Hours: dec("3.5"), HourlyRate: dec("60"), TaxRate: dec("19")},
			{Description: "Installation", Hours: dec("8"), HourlyRate: dec("60"), TaxRate: dec("19")},
		},
		Materials: []entity.Material{
			{Name: "Kupferrohr 22mm", Quantity: dec("12"), UnitPrice: dec("4.90"), TaxRate: dec("19")},
		},
	}

	items := billing.JobLineItems(job)

	require.Len(t, items, 3)
	assert.Equal(t, "Demontage Altanlage", items[0].Description)
	assert.Equal(t, 1, items[0].Position)
	assert.Equal(t, "Kupferrohr 22mm", items[2].Description)
	assert.Equal(t, 3, items[2].Position)

	tot := billing.Calculate(items, nil)
	// 3,5×60 + 8×60 + 12×4,90 = 210 + 480 + 58,80 = 748,80 netto
	assertDec(t, "748.80", tot.Subtotal, "Netto des Auftrags")
	assertDec(t, "142.27", tot.TaxAmount, "19 % auf 748,80")
}

// TestJobLineItems_LeereBeschreibungBekommtDatum: ohne Beschreibung wird das
// Arbeitsdatum als Positionstext verwendet.
func TestJobLineItems_LeereBeschreibungBekommtDatum(t *testing.T) {
	job := &entity.Job{
		TimeEntries: []entity.TimeEntry{
			{Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Hours: dec("2"), HourlyRate: dec("55"), TaxRate: dec("19")},
		},
	}

	items := billing.JobLineItems(job)

	require.Len(t, items, 1)
	assert.Equal(t, "Arbeitszeit am 14.03.2025", items[0].Description)
}
