package documents

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain"
)

// manifestName ist der Name der Inhaltsliste im Export-ZIP.
const manifestName = "manifest.txt"

// Export löst die Referenzen strikt sequenziell auf und packt sie in ein
// ZIP im Speicher. Zwischen den Dokumenten wird mit festem Takt pausiert,
// damit der Sammelexport die laufende Bedienung nicht verdrängt. Ein
// fehlgeschlagenes Dokument wird im Manifest vermerkt und übersprungen;
// erst wenn kein einziges Dokument gelingt, schlägt der Export fehl.
func (uc *UseCase) Export(ctx context.Context, refs []dto.DocumentRefDTO) ([]byte, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: keine referenzen angegeben", domain.ErrInvalidInput)
	}

	limiter := rate.NewLimiter(rate.Every(uc.deps.ExportPace), 1)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var manifest strings.Builder
	used := make(map[string]int)
	succeeded := 0

	for _, ref := range refs {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("export abgebrochen: %w", err)
		}
		doc, err := uc.resolve(ctx, ref)
		if err != nil {
			uc.log.Warn().Err(err).Str("type", ref.Type).Str("id", ref.ID).Msg("export: dokument übersprungen")
			fmt.Fprintf(&manifest, "FEHLER  %s %s: %v\n", ref.Type, ref.ID, err)
			continue
		}
		name := uniqueName(used, doc.Filename)
		fw, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("zip-eintrag %s: %w", name, err)
		}
		if _, err := fw.Write(doc.Bytes); err != nil {
			return nil, fmt.Errorf("zip-eintrag %s schreiben: %w", name, err)
		}
		fmt.Fprintf(&manifest, "OK      %s (%d bytes)\n", name, len(doc.Bytes))
		succeeded++
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: kein dokument konnte erzeugt werden", domain.ErrGeneration)
	}

	fw, err := zw.Create(manifestName)
	if err != nil {
		return nil, fmt.Errorf("zip-manifest: %w", err)
	}
	if _, err := fw.Write([]byte(manifest.String())); err != nil {
		return nil, fmt.Errorf("zip-manifest schreiben: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip schließen: %w", err)
	}
	return buf.Bytes(), nil
}

// uniqueName macht doppelte Dateinamen im ZIP eindeutig: "a.pdf", "a (2).pdf".
func uniqueName(used map[string]int, name string) string {
	used[name]++
	if used[name] == 1 {
		return name
	}
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return fmt.Sprintf("%s (%d)", name, used[name])
	}
	return fmt.Sprintf("%s (%d)%s", name[:dot], used[name], name[dot:])
}
