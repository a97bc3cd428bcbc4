package repository

// SequenceRepository vergibt fortlaufende Belegnummern je Betrieb, Belegart und Jahr.
// Next muss innerhalb einer Transaktion laufen, damit keine Lücken entstehen.
type SequenceRepository interface {
	Next(companyID, docType string, year int) (int, error)
}
