package einvoice

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// XMLDigest kanonisiert das Dokument (C14N) und liefert den SHA-256-Hash
// hex-kodiert. Durch die Kanonisierung ändert sich der Hash nicht, wenn nur
// Einrückung oder Attributreihenfolge variieren.
func XMLDigest(doc []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("xml kanonisieren: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// RawDigest liefert den SHA-256-Hash beliebiger Bytes (PDFs, ZIPs) hex-kodiert.
func RawDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Digests stellt die Hash-Funktionen als Port-Implementierung bereit.
type Digests struct{}

// NewDigests baut den Dienst.
func NewDigests() Digests { return Digests{} }

// XML kanonisiert und hasht, siehe XMLDigest.
func (Digests) XML(doc []byte) (string, error) { return XMLDigest(doc) }

// Raw hasht die Bytes unverändert, siehe RawDigest.
func (Digests) Raw(data []byte) string { return RawDigest(data) }
