package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxReminderStage ist die höchste Mahnstufe je Rechnung.
const MaxReminderStage = 3

// Reminder ist eine Mahnung zu einer offenen Rechnung.
type Reminder struct {
	ID        string
	InvoiceID string
	Stage     int // 1..MaxReminderStage
	Fee       decimal.Decimal
	Text      string
	IssueDate time.Time
	DueDate   time.Time // neues Zahlungsziel
	CreatedAt time.Time
}
