// Package einvoice erzeugt die maschinenlesbaren Rechnungsformate:
// XRechnung (UBL 2.1) und ZUGFeRD (UN/CEFACT CII) samt Einbettung in das PDF.
package einvoice

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	// XRechnung 3.0 auf Basis EN 16931.
	customizationID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	profileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

	currencyEUR = "EUR"
	unitPiece   = "C62" // UN/ECE Rec 20: "one"
)

// XRechnungBuilder serialisiert eine Rechnung als UBL-XML (XRechnung 3.0).
// Reine Funktion über (Invoice, Company, Customer); Beträge immer mit genau
// zwei Nachkommastellen, unabhängig von der Locale.
type XRechnungBuilder struct{}

// NewXRechnungBuilder baut den Builder.
func NewXRechnungBuilder() *XRechnungBuilder { return &XRechnungBuilder{} }

// Build erzeugt das UBL-Dokument. Freitexte werden über encoding/xml
// escaped; Handkonkatenation von Markup ist hier bewusst ausgeschlossen.
func (b *XRechnungBuilder) Build(inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error) {
	if inv == nil || company == nil || customer == nil {
		return nil, fmt.Errorf("xrechnung: invoice, company und customer sind erforderlich")
	}
	totals := billing.Calculate(inv.Items, inv.Discount)
	allZero := billing.AllZeroRated(inv.Items)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Space: nsInvoice, Local: "Invoice"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	writeCbc(enc, "CustomizationID", customizationID)
	writeCbc(enc, "ProfileID", profileID)
	writeCbc(enc, "ID", inv.Number)
	writeCbc(enc, "IssueDate", inv.IssueDate.Format("2006-01-02"))
	writeCbc(enc, "DueDate", inv.DueDate.Format("2006-01-02"))
	writeCbc(enc, "InvoiceTypeCode", "380")
	if allZero {
		writeCbc(enc, "Note", billing.TaxClause(company.IsSmallBusiness))
	}
	if inv.Notes != "" {
		writeCbc(enc, "Note", inv.Notes)
	}
	writeCbc(enc, "DocumentCurrencyCode", currencyEUR)
	// BT-10 ist Pflicht; ohne Kundennummer dient die Rechnungsnummer als Referenz.
	buyerRef := customer.Number
	if buyerRef == "" {
		buyerRef = inv.Number
	}
	writeCbc(enc, "BuyerReference", buyerRef)

	b.writeSupplierParty(enc, company)
	b.writeCustomerParty(enc, customer)
	b.writePaymentMeans(enc, company)
	startCac(enc, "PaymentTerms")
	writeCbc(enc, "Note", "Zahlbar ohne Abzug bis "+inv.DueDate.Format("02.01.2006"))
	endCac(enc, "PaymentTerms")

	b.writeAllowances(enc, inv, totals, company.IsSmallBusiness)
	b.writeTaxTotal(enc, totals, allZero, company.IsSmallBusiness)
	b.writeLegalMonetaryTotal(enc, totals)

	for _, it := range inv.Items {
		b.writeInvoiceLine(enc, it, company.IsSmallBusiness)
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *XRechnungBuilder) writeSupplierParty(enc *xml.Encoder, company *entity.Company) {
	startCac(enc, "AccountingSupplierParty")
	startCac(enc, "Party")
	startCac(enc, "PartyName")
	writeCbc(enc, "Name", company.Name)
	endCac(enc, "PartyName")
	writeAddress(enc, company.Street, company.City, company.ZIP, countryOrDefault(company.Country))
	if company.VATID != "" {
		startCac(enc, "PartyTaxScheme")
		writeCbc(enc, "CompanyID", company.VATID)
		writeTaxScheme(enc)
		endCac(enc, "PartyTaxScheme")
	}
	startCac(enc, "PartyLegalEntity")
	writeCbc(enc, "RegistrationName", company.Name)
	if company.TaxNumber != "" {
		writeCbc(enc, "CompanyID", company.TaxNumber)
	}
	endCac(enc, "PartyLegalEntity")
	if company.Email != "" || company.Phone != "" {
		startCac(enc, "Contact")
		if company.OwnerName != "" {
			writeCbc(enc, "Name", company.OwnerName)
		}
		if company.Phone != "" {
			writeCbc(enc, "Telephone", company.Phone)
		}
		if company.Email != "" {
			writeCbc(enc, "ElectronicMail", company.Email)
		}
		endCac(enc, "Contact")
	}
	endCac(enc, "Party")
	endCac(enc, "AccountingSupplierParty")
}

func (b *XRechnungBuilder) writeCustomerParty(enc *xml.Encoder, customer *entity.Customer) {
	startCac(enc, "AccountingCustomerParty")
	startCac(enc, "Party")
	startCac(enc, "PartyName")
	writeCbc(enc, "Name", customer.Name)
	endCac(enc, "PartyName")
	writeAddress(enc, customer.Street, customer.City, customer.ZIP, countryOrDefault(customer.Country))
	if customer.VATID != "" {
		startCac(enc, "PartyTaxScheme")
		writeCbc(enc, "CompanyID", customer.VATID)
		writeTaxScheme(enc)
		endCac(enc, "PartyTaxScheme")
	}
	startCac(enc, "PartyLegalEntity")
	writeCbc(enc, "RegistrationName", customer.Name)
	endCac(enc, "PartyLegalEntity")
	if email := customer.PrimaryEmail(); email != "" {
		startCac(enc, "Contact")
		if customer.ContactPerson != "" {
			writeCbc(enc, "Name", customer.ContactPerson)
		}
		writeCbc(enc, "ElectronicMail", email)
		endCac(enc, "Contact")
	}
	endCac(enc, "Party")
	endCac(enc, "AccountingCustomerParty")
}

func (b *XRechnungBuilder) writePaymentMeans(enc *xml.Encoder, company *entity.Company) {
	if company.IBAN == "" {
		return
	}
	startCac(enc, "PaymentMeans")
	writeCbc(enc, "PaymentMeansCode", "58") // SEPA-Überweisung
	startCac(enc, "PayeeFinancialAccount")
	writeCbc(enc, "ID", company.IBAN)
	writeCbc(enc, "Name", company.Name)
	if company.BIC != "" {
		startCac(enc, "FinancialInstitutionBranch")
		writeCbc(enc, "ID", company.BIC)
		endCac(enc, "FinancialInstitutionBranch")
	}
	endCac(enc, "PayeeFinancialAccount")
	endCac(enc, "PaymentMeans")
}

// writeAllowances bildet den Gesamtrabatt als Nachlässe auf Belegebene ab:
// je Steuersatz ein AllowanceCharge mit dem anteilig zugeordneten Betrag
// (BG-20), damit die Steueraufschlüsselung aufgeht.
func (b *XRechnungBuilder) writeAllowances(enc *xml.Encoder, inv *entity.Invoice, totals billing.Totals, smallBusiness bool) {
	if totals.GlobalDiscount.Sign() <= 0 {
		return
	}
	undiscounted := billing.Calculate(inv.Items, nil)
	for _, pre := range undiscounted.Buckets {
		var post billing.TaxBucket
		for _, pb := range totals.Buckets {
			if pb.Rate.Equal(pre.Rate) {
				post = pb
				break
			}
		}
		share := pre.Taxable.Sub(post.Taxable)
		if share.Sign() <= 0 {
			continue
		}
		startCac(enc, "AllowanceCharge")
		writeCbc(enc, "ChargeIndicator", "false")
		writeCbc(enc, "AllowanceChargeReason", "Rabatt")
		writeAmount(enc, "Amount", share)
		writeTaxCategory(enc, "TaxCategory", pre.Rate, smallBusiness)
		endCac(enc, "AllowanceCharge")
	}
}

// writeTaxTotal schreibt die Steuersumme und je Satz > 0 ein TaxSubtotal,
// aufsteigend nach Satz. Sind alle Positionen mit 0 % besteuert, wird ein
// einzelnes Subtotal mit Befreiungsgrund ausgewiesen.
func (b *XRechnungBuilder) writeTaxTotal(enc *xml.Encoder, totals billing.Totals, allZero, smallBusiness bool) {
	startCac(enc, "TaxTotal")
	writeAmount(enc, "TaxAmount", totals.TaxAmount)
	if allZero {
		startCac(enc, "TaxSubtotal")
		writeAmount(enc, "TaxableAmount", totals.Subtotal)
		writeAmount(enc, "TaxAmount", decimal.Zero)
		startCac(enc, "TaxCategory")
		writeCbc(enc, "ID", zeroTaxCategory(smallBusiness))
		writeCbc(enc, "Percent", "0.00")
		writeCbc(enc, "TaxExemptionReason", billing.TaxClause(smallBusiness))
		writeTaxScheme(enc)
		endCac(enc, "TaxCategory")
		endCac(enc, "TaxSubtotal")
	} else {
		for _, bucket := range totals.NonzeroBuckets() {
			startCac(enc, "TaxSubtotal")
			writeAmount(enc, "TaxableAmount", bucket.Taxable)
			writeAmount(enc, "TaxAmount", bucket.Tax)
			writeTaxCategory(enc, "TaxCategory", bucket.Rate, smallBusiness)
			endCac(enc, "TaxSubtotal")
		}
	}
	endCac(enc, "TaxTotal")
}

// writeLegalMonetaryTotal: die fünf Beträge sind untereinander konsistent —
// PayableAmount == TaxInclusiveAmount, TaxExclusiveAmount == LineExtension
// minus Rabatte.
func (b *XRechnungBuilder) writeLegalMonetaryTotal(enc *xml.Encoder, totals billing.Totals) {
	startCac(enc, "LegalMonetaryTotal")
	writeAmount(enc, "LineExtensionAmount", totals.LineExtension)
	writeAmount(enc, "TaxExclusiveAmount", totals.Subtotal)
	writeAmount(enc, "TaxInclusiveAmount", totals.Total)
	if totals.GlobalDiscount.Sign() > 0 {
		writeAmount(enc, "AllowanceTotalAmount", totals.GlobalDiscount)
	}
	writeAmount(enc, "PayableAmount", totals.Total)
	endCac(enc, "LegalMonetaryTotal")
}

func (b *XRechnungBuilder) writeInvoiceLine(enc *xml.Encoder, it entity.LineItem, smallBusiness bool) {
	startCac(enc, "InvoiceLine")
	writeCbc(enc, "ID", strconv.Itoa(it.Position))
	writeCbcWithAttr(enc, "InvoicedQuantity", formatAmount(it.Quantity), "unitCode", unitPiece)
	writeAmount(enc, "LineExtensionAmount", billing.LineTotal(it))

	if d := billing.LineDiscount(it); d.Sign() > 0 {
		startCac(enc, "AllowanceCharge")
		writeCbc(enc, "ChargeIndicator", "false")
		writeCbc(enc, "AllowanceChargeReason", "Positionsrabatt")
		writeAmount(enc, "Amount", d)
		endCac(enc, "AllowanceCharge")
	}

	startCac(enc, "Item")
	writeCbc(enc, "Name", it.Description)
	writeTaxCategory(enc, "ClassifiedTaxCategory", it.TaxRate, smallBusiness)
	endCac(enc, "Item")

	startCac(enc, "Price")
	writeAmount(enc, "PriceAmount", it.UnitPrice)
	endCac(enc, "Price")
	endCac(enc, "InvoiceLine")
}

// ── Token-Helfer ──────────────────────────────────────────────────────────────

func startCac(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: nsCac, Local: local}})
}

func endCac(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: nsCac, Local: local}})
}

func writeCbc(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Space: nsCbc, Local: local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: nsCbc, Local: local}})
}

func writeCbcWithAttr(enc *xml.Encoder, local, value, attrLocal, attrValue string) {
	_ = enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Space: nsCbc, Local: local},
		Attr: []xml.Attr{{Name: xml.Name{Local: attrLocal}, Value: attrValue}},
	})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Space: nsCbc, Local: local}})
}

func writeAmount(enc *xml.Encoder, local string, d decimal.Decimal) {
	writeCbcWithAttr(enc, local, formatAmount(d), "currencyID", currencyEUR)
}

func writeAddress(enc *xml.Encoder, street, city, zip, country string) {
	startCac(enc, "PostalAddress")
	if street != "" {
		writeCbc(enc, "StreetName", street)
	}
	if city != "" {
		writeCbc(enc, "CityName", city)
	}
	if zip != "" {
		writeCbc(enc, "PostalZone", zip)
	}
	startCac(enc, "Country")
	writeCbc(enc, "IdentificationCode", country)
	endCac(enc, "Country")
	endCac(enc, "PostalAddress")
}

func writeTaxScheme(enc *xml.Encoder) {
	startCac(enc, "TaxScheme")
	writeCbc(enc, "ID", "VAT")
	endCac(enc, "TaxScheme")
}

func writeTaxCategory(enc *xml.Encoder, local string, rate decimal.Decimal, smallBusiness bool) {
	startCac(enc, local)
	if rate.Sign() > 0 {
		writeCbc(enc, "ID", "S")
	} else {
		writeCbc(enc, "ID", zeroTaxCategory(smallBusiness))
	}
	writeCbc(enc, "Percent", formatAmount(rate))
	writeTaxScheme(enc)
	endCac(enc, local)
}

// zeroTaxCategory: E = steuerbefreit (§ 19 UStG), AE = Reverse-Charge (§ 13b).
func zeroTaxCategory(smallBusiness bool) string {
	if smallBusiness {
		return "E"
	}
	return "AE"
}

// formatAmount: XML-Beträge immer mit Punkt und zwei Nachkommastellen.
func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
