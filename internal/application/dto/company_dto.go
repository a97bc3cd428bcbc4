package dto

import "github.com/shopspring/decimal"

// ReminderStageDTO Gebühr und Textbaustein einer Mahnstufe.
type ReminderStageDTO struct {
	Fee  decimal.Decimal `json:"fee"`
	Text string          `json:"text,omitempty"`
}

// UpdateCompanyRequest Body für PUT /api/company. Legt den Betrieb beim
// ersten Aufruf an (Einzelinstallation, genau ein Betrieb).
type UpdateCompanyRequest struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name,omitempty"`
	Street    string `json:"street,omitempty"`
	ZIP       string `json:"zip,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Website   string `json:"website,omitempty"`
	TaxNumber string `json:"tax_number,omitempty"`
	VATID     string `json:"vat_id,omitempty"`
	IBAN      string `json:"iban,omitempty"`
	BIC       string `json:"bic,omitempty"`
	BankName  string `json:"bank_name,omitempty"`

	Logo     string `json:"logo,omitempty"` // Base64; leer = unverändert
	LogoMime string `json:"logo_mime,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`

	AccentColor string `json:"accent_color,omitempty"`
	Locale      string `json:"locale,omitempty"`

	IsSmallBusiness  bool                `json:"is_small_business"`
	DiscountsEnabled bool                `json:"discounts_enabled"`
	RemindersEnabled bool                `json:"reminders_enabled"`
	ReminderStages   [3]ReminderStageDTO `json:"reminder_stages"`
}

// CompanyResponse Betriebsstammdaten in Antworten (Logo nur als Flag).
type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerName string `json:"owner_name,omitempty"`
	Street    string `json:"street,omitempty"`
	ZIP       string `json:"zip,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Website   string `json:"website,omitempty"`
	TaxNumber string `json:"tax_number,omitempty"`
	VATID     string `json:"vat_id,omitempty"`
	IBAN      string `json:"iban,omitempty"`
	BIC       string `json:"bic,omitempty"`
	BankName  string `json:"bank_name,omitempty"`

	HasLogo bool   `json:"has_logo"`
	LogoURL string `json:"logo_url,omitempty"`

	AccentColor string `json:"accent_color,omitempty"`
	Locale      string `json:"locale,omitempty"`

	IsSmallBusiness  bool                `json:"is_small_business"`
	DiscountsEnabled bool                `json:"discounts_enabled"`
	RemindersEnabled bool                `json:"reminders_enabled"`
	ReminderStages   [3]ReminderStageDTO `json:"reminder_stages"`
}
