package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

func TestJobTransitionAllowed_NurVorwaerts(t *testing.T) {
	assert.True(t, billing.JobTransitionAllowed(entity.JobStatusDraft, entity.JobStatusInProgress))
	assert.True(t, billing.JobTransitionAllowed(entity.JobStatusInProgress, entity.JobStatusCompleted))
	assert.True(t, billing.JobTransitionAllowed(entity.JobStatusCompleted, entity.JobStatusInvoiced))
	assert.True(t, billing.JobTransitionAllowed(entity.JobStatusDraft, entity.JobStatusCompleted),
		"Überspringen in Vorwärtsrichtung ist erlaubt")

	assert.False(t, billing.JobTransitionAllowed(entity.JobStatusCompleted, entity.JobStatusInProgress),
		"rückwärts ist nie erlaubt")
	assert.False(t, billing.JobTransitionAllowed(entity.JobStatusDraft, entity.JobStatusDraft))
}

func TestJobTransitionAllowed_InvoicedIstEndgueltig(t *testing.T) {
	for _, to := range []string{
		entity.JobStatusDraft, entity.JobStatusInProgress, entity.JobStatusCompleted, entity.JobStatusInvoiced,
	} {
		assert.False(t, billing.JobTransitionAllowed(entity.JobStatusInvoiced, to),
			"aus invoiced heraus darf nichts mehr gehen (nach %s)", to)
	}
}

func TestJobTransitionAllowed_UnbekannteStati(t *testing.T) {
	assert.False(t, billing.JobTransitionAllowed("draft", "archived"))
	assert.False(t, billing.JobTransitionAllowed("", "draft"))
}

func TestQuoteTransitionAllowed(t *testing.T) {
	assert.True(t, billing.QuoteTransitionAllowed(entity.QuoteStatusDraft, entity.QuoteStatusSent))
	assert.True(t, billing.QuoteTransitionAllowed(entity.QuoteStatusSent, entity.QuoteStatusAccepted))
	assert.True(t, billing.QuoteTransitionAllowed(entity.QuoteStatusAccepted, entity.QuoteStatusInvoiced))

	assert.False(t, billing.QuoteTransitionAllowed(entity.QuoteStatusRejected, entity.QuoteStatusAccepted),
		"abgelehnte Angebote bleiben abgelehnt")
	assert.False(t, billing.QuoteTransitionAllowed(entity.QuoteStatusInvoiced, entity.QuoteStatusDraft))
	assert.False(t, billing.QuoteTransitionAllowed(entity.QuoteStatusSent, entity.QuoteStatusInvoiced),
		"Überführung in eine Rechnung setzt Annahme voraus")
}

func TestInvoiceTransitionAllowed(t *testing.T) {
	assert.True(t, billing.InvoiceTransitionAllowed(entity.InvoiceStatusDraft, entity.InvoiceStatusOpen))
	assert.True(t, billing.InvoiceTransitionAllowed(entity.InvoiceStatusOpen, entity.InvoiceStatusPaid))
	assert.True(t, billing.InvoiceTransitionAllowed(entity.InvoiceStatusOpen, entity.InvoiceStatusCancelled))

	assert.False(t, billing.InvoiceTransitionAllowed(entity.InvoiceStatusPaid, entity.InvoiceStatusOpen),
		"bezahlte Rechnungen sind endgültig")
	assert.False(t, billing.InvoiceTransitionAllowed(entity.InvoiceStatusCancelled, entity.InvoiceStatusOpen))
}
