package billing

import "github.com/jnamyslo/belego-api/internal/domain/entity"

// Rangfolge der Auftragsstati; Übergänge nur vorwärts, "invoiced" ist endgültig.
var jobStatusRank = map[string]int{
	entity.JobStatusDraft:      0,
	entity.JobStatusInProgress: 1,
	entity.JobStatusCompleted:  2,
	entity.JobStatusInvoiced:   3,
}

// JobTransitionAllowed prüft einen Statuswechsel eines Auftrags.
func JobTransitionAllowed(from, to string) bool {
	rf, okF := jobStatusRank[from]
	rt, okT := jobStatusRank[to]
	if !okF || !okT {
		return false
	}
	if from == entity.JobStatusInvoiced {
		return false
	}
	return rt > rf
}

var quoteTransitions = map[string][]string{
	entity.QuoteStatusDraft:    {entity.QuoteStatusSent, entity.QuoteStatusAccepted, entity.QuoteStatusRejected},
	entity.QuoteStatusSent:     {entity.QuoteStatusAccepted, entity.QuoteStatusRejected},
	entity.QuoteStatusAccepted: {entity.QuoteStatusInvoiced},
}

// QuoteTransitionAllowed prüft einen Statuswechsel eines Angebots.
func QuoteTransitionAllowed(from, to string) bool {
	for _, s := range quoteTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var invoiceTransitions = map[string][]string{
	entity.InvoiceStatusDraft: {entity.InvoiceStatusOpen, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusOpen:  {entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled},
}

// InvoiceTransitionAllowed prüft einen Statuswechsel einer Rechnung.
func InvoiceTransitionAllowed(from, to string) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
