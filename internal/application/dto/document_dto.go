package dto

import "time"

// DocumentRefDTO ist eine getaggte Belegreferenz. Type bestimmt, welche
// Felder gelten: Entity-Referenzen brauchen ID, "attachment" bringt die
// Datei selbst Base64-kodiert mit.
type DocumentRefDTO struct {
	// attachment | invoice-pdf | invoice-zugferd | invoice-xrechnung |
	// quote-pdf | job-pdf | reminder-pdf
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	// nur Type "attachment":
	Data        string `json:"data,omitempty"` // Base64
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// ResolveDocumentRequest Body für POST /api/documents/resolve. Mit
// PreviewToken wird das Ergebnis zusätzlich in der Vorschau-Registry
// abgelegt; ein erneutes Auflösen unter demselben Token verdrängt den
// vorherigen Stand.
type ResolveDocumentRequest struct {
	Ref          DocumentRefDTO `json:"ref"`
	PreviewToken string         `json:"preview_token,omitempty"`
}

// ExportDocumentsRequest Body für POST /api/documents/export.
type ExportDocumentsRequest struct {
	Refs []DocumentRefDTO `json:"refs"`
}

// JournalEntryResponse ein Eintrag des Dokumentenjournals.
type JournalEntryResponse struct {
	ID          string    `json:"id"`
	DocType     string    `json:"doc_type"`
	DocNumber   string    `json:"doc_number"`
	Format      string    `json:"format"`
	Filename    string    `json:"filename"`
	SHA256      string    `json:"sha256"`
	SizeBytes   int       `json:"size_bytes"`
	GeneratedAt time.Time `json:"generated_at"`
}
