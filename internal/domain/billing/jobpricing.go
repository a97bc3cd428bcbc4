package billing

import (
	"fmt"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// JobLineItems überführt einen Auftrag in Belegpositionen:
// erst Arbeitszeiten (Stunden × Stundensatz), dann Material.
func JobLineItems(job *entity.Job) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(job.TimeEntries)+len(job.Materials))
	pos := 1
	for _, te := range job.TimeEntries {
		desc := te.Description
		if desc == "" {
			desc = fmt.Sprintf("Arbeitszeit am %s", te.Date.Format("02.01.2006"))
		}
		items = append(items, entity.LineItem{
			Position:    pos,
			Description: desc,
			Quantity:    te.Hours,
			UnitPrice:   te.HourlyRate,
			TaxRate:     te.TaxRate,
		})
		pos++
	}
	for _, m := range job.Materials {
		items = append(items, entity.LineItem{
			Position:    pos,
			Description: m.Name,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			TaxRate:     m.TaxRate,
		})
		pos++
	}
	return items
}
