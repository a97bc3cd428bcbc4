package billing

// Pflichthinweise für Belege, deren Positionen sämtlich mit 0 % besteuert sind.
const (
	SmallBusinessClause = "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet."
	ReverseChargeClause = "Steuerschuldnerschaft des Leistungsempfängers gemäß § 13b UStG."
)

// TaxClause liefert den passenden Hinweis: Kleinunternehmerregelung oder
// Reverse-Charge. Gilt nur, wenn AllZeroRated für den Beleg wahr ist.
func TaxClause(isSmallBusiness bool) string {
	if isSmallBusiness {
		return SmallBusinessClause
	}
	return ReverseChargeClause
}
