package einvoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"github.com/jnamyslo/belego-api/internal/application/documents"
)

// PdfcpuAttacher bettet Anhänge über pdfcpu ein. pdfcpu arbeitet mit
// Dateipfaden, daher werden die Anhänge in ein temporäres Verzeichnis
// geschrieben und danach wieder entfernt.
type PdfcpuAttacher struct {
	conf *model.Configuration
}

var _ documents.Attacher = (*PdfcpuAttacher)(nil)

// NewPdfcpuAttacher baut den Attacher mit entspannter Validierung, damit
// auch PDFs aus fremden Generatoren verarbeitet werden.
func NewPdfcpuAttacher() *PdfcpuAttacher {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuAttacher{conf: conf}
}

// Attach hängt die Dateien an und liefert das neue PDF.
func (a *PdfcpuAttacher) Attach(pdf []byte, attachments []documents.Attachment) ([]byte, error) {
	if len(attachments) == 0 {
		return pdf, nil
	}
	dir, err := os.MkdirTemp("", "belego-attach-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir für anhänge: %w", err)
	}
	defer os.RemoveAll(dir)

	files := make([]string, 0, len(attachments))
	for _, att := range attachments {
		path := filepath.Join(dir, filepath.Base(att.Filename))
		if err := os.WriteFile(path, att.Data, 0o600); err != nil {
			return nil, fmt.Errorf("anhang %s schreiben: %w", att.Filename, err)
		}
		files = append(files, path)
	}

	var out bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(pdf), &out, files, false, a.conf); err != nil {
		return nil, fmt.Errorf("anhänge einbetten: %w", err)
	}
	return out.Bytes(), nil
}

// NoopAttacher lässt das PDF unverändert und protokolliert den Verzicht.
// Wird verwendet, wenn die Einbettung per Konfiguration abgeschaltet ist;
// das XML bleibt über die eigenen Endpunkte abrufbar.
type NoopAttacher struct {
	log zerolog.Logger
}

var _ documents.Attacher = (*NoopAttacher)(nil)

// NewNoopAttacher baut den abgeschalteten Attacher.
func NewNoopAttacher(log zerolog.Logger) *NoopAttacher {
	return &NoopAttacher{log: log}
}

// Attach liefert das PDF unverändert zurück.
func (a *NoopAttacher) Attach(pdf []byte, attachments []documents.Attachment) ([]byte, error) {
	for _, att := range attachments {
		a.log.Warn().Str("filename", att.Filename).Msg("pdf-einbettung deaktiviert, anhang übersprungen")
	}
	return pdf, nil
}
