package entity

import "time"

// Customer repräsentiert einen Kunden (Rechnungsempfänger).
type Customer struct {
	ID            string
	CompanyID     string
	Number        string // Kundennummer, optional
	Name          string // Firma oder voller Name
	ContactPerson string
	Street        string
	ZIP           string
	City          string
	Country       string
	Phone         string
	Emails        []string // erste Adresse ist die Hauptadresse
	VATID         string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PrimaryEmail liefert die Hauptadresse oder "".
func (c *Customer) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0]
}
