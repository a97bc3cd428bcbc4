package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderStage konfiguriert eine Mahnstufe (Gebühr und Textbaustein).
type ReminderStage struct {
	Fee  decimal.Decimal
	Text string
}

// Company hält die Stammdaten des eigenen Betriebs.
type Company struct {
	ID        string
	Name      string
	OwnerName string
	Street    string
	ZIP       string
	City      string
	Country   string // ISO 3166-1 alpha-2, Standard "DE"
	Phone     string
	Email     string
	Website   string
	TaxNumber string // Steuernummer
	VATID     string // USt-IdNr., z.B. DE123456789
	IBAN      string
	BIC       string
	BankName  string

	Logo     []byte // gespeichertes Logo; hat Vorrang vor LogoURL
	LogoMime string
	LogoURL  string // alternativ: Logo wird beim Rendern geladen (5s-Timeout)

	AccentColor string // Hex, z.B. "#1D4ED8"
	Locale      string // BCP-47, Standard "de-DE"

	IsSmallBusiness  bool // Kleinunternehmer nach §19 UStG: alle Belege ohne USt.
	DiscountsEnabled bool
	RemindersEnabled bool
	ReminderStages   [3]ReminderStage // Mahnstufen 1..3

	CreatedAt time.Time
	UpdatedAt time.Time
}
