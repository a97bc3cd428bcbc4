package dto

// PageRequest Paginierung für Listen.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage setzt Standardwerte, wenn Limit/Offset null sind.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse Seitenmetadaten in Antworten.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse HTTP-Fehlerkörper.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable signalisiert dem Client, dass ein erneuter Versuch sinnvoll ist
	// (z.B. nach einem Renderfehler).
	Retryable bool `json:"retryable,omitempty"`
}
