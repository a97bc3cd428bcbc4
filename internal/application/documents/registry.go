package documents

import "sync"

// Resolved ist ein fertig aufgelöstes Dokument.
type Resolved struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

// PreviewRegistry hält je Vorschau-Token genau ein aufgelöstes Dokument im
// Speicher. Put unter einem belegten Token verdrängt den alten Stand, damit
// der Speicher bei wechselnden Vorschauen nicht wächst.
type PreviewRegistry struct {
	mu   sync.Mutex
	docs map[string]*Resolved
}

// NewPreviewRegistry baut die leere Registry.
func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{docs: make(map[string]*Resolved)}
}

// Put hinterlegt doc unter token und gibt den vorherigen Stand frei.
func (r *PreviewRegistry) Put(token string, doc *Resolved) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[token] = doc
}

// Get liefert das Dokument zum Token.
func (r *PreviewRegistry) Get(token string) (*Resolved, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[token]
	return doc, ok
}

// Release entfernt den Eintrag; unbekannte Tokens sind kein Fehler.
func (r *PreviewRegistry) Release(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, token)
}

// Len liefert die Zahl gehaltener Vorschauen (für Tests und Diagnose).
func (r *PreviewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}
