package einvoice

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jnamyslo/belego-api/internal/domain/billing"
	"github.com/jnamyslo/belego-api/internal/domain/entity"
)

// Namespaces UN/CEFACT CII.
const (
	nsRsm = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRam = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUdt = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"

	// ZUGFeRD-Profil EN 16931 (COMFORT).
	zugferdGuideline = "urn:cen.eu:en16931:2017"

	// Format 102 = Kalenderdatum JJJJMMTT.
	dateFormat102 = "20060102"
)

// ZUGFeRDBuilder serialisiert eine Rechnung als CII-XML für die Einbettung
// in das Rechnungs-PDF (ZUGFeRD, Dateiname zugferd-invoice.xml).
type ZUGFeRDBuilder struct{}

// NewZUGFeRDBuilder baut den Builder.
func NewZUGFeRDBuilder() *ZUGFeRDBuilder { return &ZUGFeRDBuilder{} }

// Build erzeugt das CII-Dokument. Betragsregeln wie bei der XRechnung:
// Punkt als Dezimaltrenner, genau zwei Nachkommastellen.
func (b *ZUGFeRDBuilder) Build(inv *entity.Invoice, company *entity.Company, customer *entity.Customer) ([]byte, error) {
	if inv == nil || company == nil || customer == nil {
		return nil, fmt.Errorf("zugferd: invoice, company und customer sind erforderlich")
	}
	totals := billing.Calculate(inv.Items, inv.Discount)
	allZero := billing.AllZeroRated(inv.Items)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRsm)
	root.CreateAttr("xmlns:ram", nsRam)
	root.CreateAttr("xmlns:udt", nsUdt)

	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	guideline.CreateElement("ram:ID").SetText(zugferdGuideline)

	docEl := root.CreateElement("rsm:ExchangedDocument")
	docEl.CreateElement("ram:ID").SetText(inv.Number)
	docEl.CreateElement("ram:TypeCode").SetText("380")
	issue := docEl.CreateElement("ram:IssueDateTime")
	dateTimeString(issue, inv.IssueDate.Format(dateFormat102))
	if allZero {
		note := docEl.CreateElement("ram:IncludedNote")
		note.CreateElement("ram:Content").SetText(billing.TaxClause(company.IsSmallBusiness))
	}
	if inv.Notes != "" {
		note := docEl.CreateElement("ram:IncludedNote")
		note.CreateElement("ram:Content").SetText(inv.Notes)
	}

	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")
	for _, it := range inv.Items {
		b.writeLine(tx, it, company.IsSmallBusiness)
	}
	b.writeAgreement(tx, inv, company, customer)
	tx.CreateElement("ram:ApplicableHeaderTradeDelivery")
	b.writeSettlement(tx, inv, company, totals, allZero)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (b *ZUGFeRDBuilder) writeLine(tx *etree.Element, it entity.LineItem, smallBusiness bool) {
	line := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	assoc := line.CreateElement("ram:AssociatedDocumentLineDocument")
	assoc.CreateElement("ram:LineID").SetText(strconv.Itoa(it.Position))

	product := line.CreateElement("ram:SpecifiedTradeProduct")
	product.CreateElement("ram:Name").SetText(it.Description)

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	price.CreateElement("ram:ChargeAmount").SetText(formatAmount(it.UnitPrice))

	delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := delivery.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", unitPiece)
	qty.SetText(formatAmount(it.Quantity))

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:TypeCode").SetText("VAT")
	tax.CreateElement("ram:CategoryCode").SetText(ciiTaxCategory(it.TaxRate, smallBusiness))
	tax.CreateElement("ram:RateApplicablePercent").SetText(formatAmount(it.TaxRate))
	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(formatAmount(billing.LineTotal(it)))
}

func (b *ZUGFeRDBuilder) writeAgreement(tx *etree.Element, inv *entity.Invoice, company *entity.Company, customer *entity.Customer) {
	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")
	buyerRef := customer.Number
	if buyerRef == "" {
		buyerRef = inv.Number
	}
	agreement.CreateElement("ram:BuyerReference").SetText(buyerRef)

	seller := agreement.CreateElement("ram:SellerTradeParty")
	seller.CreateElement("ram:Name").SetText(company.Name)
	ciiAddress(seller, company.Street, company.City, company.ZIP, countryOrDefault(company.Country))
	if company.VATID != "" {
		reg := seller.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "VA")
		id.SetText(company.VATID)
	}
	if company.TaxNumber != "" {
		reg := seller.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "FC")
		id.SetText(company.TaxNumber)
	}

	buyer := agreement.CreateElement("ram:BuyerTradeParty")
	buyer.CreateElement("ram:Name").SetText(customer.Name)
	ciiAddress(buyer, customer.Street, customer.City, customer.ZIP, countryOrDefault(customer.Country))
	if customer.VATID != "" {
		reg := buyer.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "VA")
		id.SetText(customer.VATID)
	}
}

func (b *ZUGFeRDBuilder) writeSettlement(tx *etree.Element, inv *entity.Invoice, company *entity.Company, totals billing.Totals, allZero bool) {
	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	settlement.CreateElement("ram:PaymentReference").SetText(inv.Number)
	settlement.CreateElement("ram:InvoiceCurrencyCode").SetText(currencyEUR)

	if company.IBAN != "" {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		means.CreateElement("ram:TypeCode").SetText("58")
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		account.CreateElement("ram:IBANID").SetText(company.IBAN)
		if company.BankName != "" {
			account.CreateElement("ram:AccountName").SetText(company.BankName)
		}
		if company.BIC != "" {
			inst := means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
			inst.CreateElement("ram:BICID").SetText(company.BIC)
		}
	}

	if allZero {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		tax.CreateElement("ram:CalculatedAmount").SetText(formatAmount(decimal.Zero))
		tax.CreateElement("ram:TypeCode").SetText("VAT")
		tax.CreateElement("ram:ExemptionReason").SetText(billing.TaxClause(company.IsSmallBusiness))
		tax.CreateElement("ram:BasisAmount").SetText(formatAmount(totals.Subtotal))
		tax.CreateElement("ram:CategoryCode").SetText(zeroTaxCategory(company.IsSmallBusiness))
		tax.CreateElement("ram:RateApplicablePercent").SetText("0.00")
	} else {
		for _, bucket := range totals.NonzeroBuckets() {
			tax := settlement.CreateElement("ram:ApplicableTradeTax")
			tax.CreateElement("ram:CalculatedAmount").SetText(formatAmount(bucket.Tax))
			tax.CreateElement("ram:TypeCode").SetText("VAT")
			tax.CreateElement("ram:BasisAmount").SetText(formatAmount(bucket.Taxable))
			tax.CreateElement("ram:CategoryCode").SetText("S")
			tax.CreateElement("ram:RateApplicablePercent").SetText(formatAmount(bucket.Rate))
		}
	}

	if totals.GlobalDiscount.Sign() > 0 {
		b.writeAllowances(settlement, inv, totals, company.IsSmallBusiness)
	}

	terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
	terms.CreateElement("ram:Description").SetText("Zahlbar ohne Abzug bis " + inv.DueDate.Format("02.01.2006"))
	due := terms.CreateElement("ram:DueDateDateTime")
	dateTimeString(due, inv.DueDate.Format(dateFormat102))

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(formatAmount(totals.LineExtension))
	if totals.GlobalDiscount.Sign() > 0 {
		sum.CreateElement("ram:AllowanceTotalAmount").SetText(formatAmount(totals.GlobalDiscount))
	}
	sum.CreateElement("ram:TaxBasisTotalAmount").SetText(formatAmount(totals.Subtotal))
	taxTotal := sum.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", currencyEUR)
	taxTotal.SetText(formatAmount(totals.TaxAmount))
	sum.CreateElement("ram:GrandTotalAmount").SetText(formatAmount(totals.Total))
	sum.CreateElement("ram:DuePayableAmount").SetText(formatAmount(totals.Total))
}

// writeAllowances verteilt den Gesamtrabatt wie beim UBL-Dokument je
// Steuersatz, damit Basis- und Steuerbeträge konsistent bleiben.
func (b *ZUGFeRDBuilder) writeAllowances(settlement *etree.Element, inv *entity.Invoice, totals billing.Totals, smallBusiness bool) {
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
		ac := settlement.CreateElement("ram:SpecifiedTradeAllowanceCharge")
		ind := ac.CreateElement("ram:ChargeIndicator")
		ind.CreateElement("udt:Indicator").SetText("false")
		ac.CreateElement("ram:ActualAmount").SetText(formatAmount(share))
		ac.CreateElement("ram:Reason").SetText("Rabatt")
		tax := ac.CreateElement("ram:CategoryTradeTax")
		tax.CreateElement("ram:TypeCode").SetText("VAT")
		tax.CreateElement("ram:CategoryCode").SetText(ciiTaxCategory(pre.Rate, smallBusiness))
		tax.CreateElement("ram:RateApplicablePercent").SetText(formatAmount(pre.Rate))
	}
}

func ciiAddress(party *etree.Element, street, city, zip, country string) {
	addr := party.CreateElement("ram:PostalTradeAddress")
	if zip != "" {
		addr.CreateElement("ram:PostcodeCode").SetText(zip)
	}
	if street != "" {
		addr.CreateElement("ram:LineOne").SetText(street)
	}
	if city != "" {
		addr.CreateElement("ram:CityName").SetText(city)
	}
	addr.CreateElement("ram:CountryID").SetText(country)
}

func dateTimeString(parent *etree.Element, value string) {
	dt := parent.CreateElement("udt:DateTimeString")
	dt.CreateAttr("format", "102")
	dt.SetText(value)
}

func ciiTaxCategory(rate decimal.Decimal, smallBusiness bool) string {
	if rate.Sign() > 0 {
		return "S"
	}
	return zeroTaxCategory(smallBusiness)
}

func countryOrDefault(country string) string {
	if country == "" {
		return "DE"
	}
	return country
}
