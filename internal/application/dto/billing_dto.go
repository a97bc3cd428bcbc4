package dto

import "github.com/shopspring/decimal"

// DiscountDTO Rabatt auf Positions- oder Belegebene.
type DiscountDTO struct {
	Type  string          `json:"type"` // percentage | fixed
	Value decimal.Decimal `json:"value"`
}

// LineItemRequest Belegposition in Requests.
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // 0, 7 oder 19
	Discount    *DiscountDTO    `json:"discount,omitempty"`
}

// LineItemResponse Belegposition in Antworten, mit berechnetem Positionsbetrag.
type LineItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    *DiscountDTO    `json:"discount,omitempty"`
	Total       decimal.Decimal `json:"total"` // netto nach Positionsrabatt
}

// TaxBucketDTO eine Zeile der Steueraufschlüsselung.
type TaxBucketDTO struct {
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
}

// ── Kunden ────────────────────────────────────────────────────────────────────

// CreateCustomerRequest Body für POST /api/customers.
type CreateCustomerRequest struct {
	Number        string   `json:"number,omitempty"`
	Name          string   `json:"name"`
	ContactPerson string   `json:"contact_person,omitempty"`
	Street        string   `json:"street,omitempty"`
	ZIP           string   `json:"zip,omitempty"`
	City          string   `json:"city,omitempty"`
	Country       string   `json:"country,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Emails        []string `json:"emails,omitempty"`
	VATID         string   `json:"vat_id,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// CustomerResponse Kunde in Antworten.
type CustomerResponse struct {
	ID            string   `json:"id"`
	Number        string   `json:"number,omitempty"`
	Name          string   `json:"name"`
	ContactPerson string   `json:"contact_person,omitempty"`
	Street        string   `json:"street,omitempty"`
	ZIP           string   `json:"zip,omitempty"`
	City          string   `json:"city,omitempty"`
	Country       string   `json:"country,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Emails        []string `json:"emails,omitempty"`
	VATID         string   `json:"vat_id,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// ── Rechnungen ────────────────────────────────────────────────────────────────

// CreateInvoiceRequest Body für POST /api/invoices. Die Rechnungsnummer wird
// serverseitig fortlaufend vergeben.
type CreateInvoiceRequest struct {
	CustomerID string            `json:"customer_id"`
	IssueDate  string            `json:"issue_date,omitempty"` // YYYY-MM-DD, Standard heute
	DueDate    string            `json:"due_date,omitempty"`   // Standard IssueDate + 14 Tage
	Items      []LineItemRequest `json:"items"`
	Discount   *DiscountDTO      `json:"discount,omitempty"` // Gesamtrabatt
	Notes      string            `json:"notes,omitempty"`
}

// UpdateInvoiceRequest Body für PUT /api/invoices/:id. Nummer und Status sind
// hierüber nicht änderbar.
type UpdateInvoiceRequest struct {
	CustomerID string            `json:"customer_id"`
	IssueDate  string            `json:"issue_date"`
	DueDate    string            `json:"due_date"`
	Items      []LineItemRequest `json:"items"`
	Discount   *DiscountDTO      `json:"discount,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// StatusRequest Body für Statuswechsel-Endpunkte.
type StatusRequest struct {
	Status string `json:"status"`
}

// InvoiceResponse Rechnung mit Positionen und Steueraufschlüsselung.
type InvoiceResponse struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Number        string             `json:"number"`
	IssueDate     string             `json:"issue_date"`
	DueDate       string             `json:"due_date"`
	Status        string             `json:"status"`
	Items         []LineItemResponse `json:"items,omitempty"`
	Discount      *DiscountDTO       `json:"discount,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	Total         decimal.Decimal    `json:"total"`
	TaxBreakdown  []TaxBucketDTO     `json:"tax_breakdown,omitempty"`
	ReminderStage int                `json:"reminder_stage,omitempty"` // höchste bereits verschickte Mahnstufe
}

// ── Angebote ──────────────────────────────────────────────────────────────────

// CreateQuoteRequest Body für POST /api/quotes.
type CreateQuoteRequest struct {
	CustomerID string            `json:"customer_id"`
	IssueDate  string            `json:"issue_date,omitempty"`
	ValidUntil string            `json:"valid_until,omitempty"` // Standard IssueDate + 30 Tage
	Items      []LineItemRequest `json:"items"`
	Discount   *DiscountDTO      `json:"discount,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// UpdateQuoteRequest Body für PUT /api/quotes/:id.
type UpdateQuoteRequest struct {
	CustomerID string            `json:"customer_id"`
	IssueDate  string            `json:"issue_date"`
	ValidUntil string            `json:"valid_until"`
	Items      []LineItemRequest `json:"items"`
	Discount   *DiscountDTO      `json:"discount,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// QuoteResponse Angebot mit Positionen.
type QuoteResponse struct {
	ID           string             `json:"id"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name,omitempty"`
	Number       string             `json:"number"`
	IssueDate    string             `json:"issue_date"`
	ValidUntil   string             `json:"valid_until"`
	Status       string             `json:"status"`
	Items        []LineItemResponse `json:"items,omitempty"`
	Discount     *DiscountDTO       `json:"discount,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	TaxAmount    decimal.Decimal    `json:"tax_amount"`
	Total        decimal.Decimal    `json:"total"`
	TaxBreakdown []TaxBucketDTO     `json:"tax_breakdown,omitempty"`
}

// ── Aufträge ──────────────────────────────────────────────────────────────────

// TimeEntryRequest erfasste Arbeitszeit.
type TimeEntryRequest struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description,omitempty"`
	Hours       decimal.Decimal `json:"hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// MaterialRequest verbrauchtes Material.
type MaterialRequest struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// CreateJobRequest Body für POST /api/jobs.
type CreateJobRequest struct {
	CustomerID  string             `json:"customer_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	TimeEntries []TimeEntryRequest `json:"time_entries,omitempty"`
	Materials   []MaterialRequest  `json:"materials,omitempty"`
}

// UpdateJobRequest Body für PUT /api/jobs/:id.
type UpdateJobRequest struct {
	CustomerID  string             `json:"customer_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	TimeEntries []TimeEntryRequest `json:"time_entries,omitempty"`
	Materials   []MaterialRequest  `json:"materials,omitempty"`
}

// SignatureRequest Kundenunterschrift bei Abnahme.
type SignatureRequest struct {
	Image      string `json:"image"` // Base64-kodiertes PNG
	SignerName string `json:"signer_name"`
}

// TimeEntryResponse Arbeitszeit in Antworten.
type TimeEntryResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	Hours       decimal.Decimal `json:"hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// MaterialResponse Material in Antworten.
type MaterialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// JobResponse Auftrag in Antworten.
type JobResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name,omitempty"`
	Number       string              `json:"number"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Status       string              `json:"status"`
	TimeEntries  []TimeEntryResponse `json:"time_entries,omitempty"`
	Materials    []MaterialResponse  `json:"materials,omitempty"`
	Signed       bool                `json:"signed"`
	SignerName   string              `json:"signer_name,omitempty"`
	SignedAt     string              `json:"signed_at,omitempty"`
	Total        decimal.Decimal     `json:"total"` // brutto aus Zeiten + Material
}

// ── Mahnungen ─────────────────────────────────────────────────────────────────

// CreateReminderRequest Body für POST /api/invoices/:id/reminders.
// Stufe, Gebühr und Text ergeben sich aus Mahnhistorie und Betriebskonfiguration.
type CreateReminderRequest struct {
	IssueDate string `json:"issue_date,omitempty"` // Standard heute
	DueDays   int    `json:"due_days,omitempty"`   // neues Zahlungsziel in Tagen, Standard 14
}

// ReminderResponse Mahnung in Antworten.
type ReminderResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Stage     int             `json:"stage"`
	Fee       decimal.Decimal `json:"fee"`
	Text      string          `json:"text,omitempty"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date"`
}
