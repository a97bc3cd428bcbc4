package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// 2 MB reichen für jedes sinnvolle Briefkopf-Logo.
const maxLogoBytes = 2 << 20

// logoAsset ist ein ladbares Logo mit dem von gofpdf erwarteten Bildtyp.
type logoAsset struct {
	data      []byte
	imageType string // "PNG" oder "JPG"
}

// loadLogo liefert das Logo des Betriebs: gespeicherte Bytes haben Vorrang,
// sonst wird die LogoURL mit dem Kontext-Timeout geladen. (nil, nil) heißt
// "kein Logo"; der Aufrufer fällt dann auf den Firmennamen als Text zurück.
func (e *Engine) loadLogo(ctx context.Context, company *entity.Company) (*logoAsset, error) {
	if len(company.Logo) > 0 {
		return &logoAsset{data: company.Logo, imageType: imageTypeFromMime(company.LogoMime)}, nil
	}
	if company.LogoURL == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.logoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, company.LogoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("logo-request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo laden: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo laden: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("logo lesen: %w", err)
	}
	return &logoAsset{data: data, imageType: imageTypeFromMime(resp.Header.Get("Content-Type"))}, nil
}

func imageTypeFromMime(mime string) string {
	switch {
	case strings.Contains(mime, "jpeg"), strings.Contains(mime, "jpg"):
		return "JPG"
	default:
		return "PNG"
	}
}
