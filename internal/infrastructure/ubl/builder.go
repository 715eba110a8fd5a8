// Package ubl genera la representación UBL 2.1 de un borrador (Invoice, Order o
// DespatchAdvice según el tipo de documento) y su digest SHA-256 canónico.
package ubl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/pricing"
	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// Namespaces UBL 2.1.
const (
	NsInvoice        = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsOrder          = "urn:oasis:names:specification:ubl:schema:xsd:Order-2"
	NsDespatchAdvice = "urn:oasis:names:specification:ubl:schema:xsd:DespatchAdvice-2"
	NsCac            = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc            = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	dateLayout = "2006-01-02"
	// Código de tributo IGV (catálogo 05).
	igvSchemeID   = "1000"
	igvSchemeName = "IGV"
)

type kind int

const (
	kindInvoice kind = iota
	kindOrder
	kindDespatch
)

type rootSpec struct {
	kind  kind
	local string
	ns    string
}

var roots = map[entity.DocumentType]rootSpec{
	entity.DocumentTypeSale:                 {kindInvoice, "Invoice", NsInvoice},
	entity.DocumentTypeOrder:                {kindOrder, "Order", NsOrder},
	entity.DocumentTypePurchaseOrder:        {kindOrder, "Order", NsOrder},
	entity.DocumentTypeProduction:           {kindOrder, "Order", NsOrder},
	entity.DocumentTypeShippingGuide:        {kindDespatch, "DespatchAdvice", NsDespatchAdvice},
	entity.DocumentTypeShippingGuideCarrier: {kindDespatch, "DespatchAdvice", NsDespatchAdvice},
}

// Builder implementa documents.XMLRenderer con beevik/etree.
type Builder struct{}

var _ documents.XMLRenderer = (*Builder)(nil)

// NewBuilder crea el servicio.
func NewBuilder() *Builder { return &Builder{} }

// RenderXML genera el XML indentado y el digest (base64) del XML canónico.
func (b *Builder) RenderXML(_ context.Context, p documents.Preview) ([]byte, string, error) {
	if p.Document == nil {
		return nil, "", fmt.Errorf("ubl: borrador sin documento")
	}
	spec, ok := roots[p.Document.Type()]
	if !ok {
		return nil, "", fmt.Errorf("ubl: tipo de documento %s sin representación", p.Document.Type())
	}

	root := b.build(spec, p)

	digest, err := Digest(root)
	if err != nil {
		return nil, "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar: %w", err)
	}
	return out, digest, nil
}

// Digest SHA-256 (base64) de la forma canónica C14N del elemento.
func Digest(el *etree.Element) (string, error) {
	tmp := etree.NewDocument()
	tmp.SetRoot(el.Copy())
	raw, err := tmp.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("ubl: serializar para digest: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (b *Builder) build(spec rootSpec, p documents.Preview) *etree.Element {
	doc := p.Document
	h := doc.Header()

	root := etree.NewElement(spec.local)
	root.CreateAttr("xmlns", spec.ns)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "CustomizationID", "2.0")
	cbc(root, "ID", p.DraftID)
	if !h.IssueDate.IsZero() {
		cbc(root, "IssueDate", h.IssueDate.Format(dateLayout))
	}
	if spec.kind == kindOrder {
		cbc(root, "OrderTypeCode", string(doc.Type()))
	}
	if h.Observations != "" {
		cbc(root, "Note", h.Observations)
	}
	if spec.kind != kindDespatch && h.Currency != "" {
		cbc(root, "DocumentCurrencyCode", h.Currency)
	}
	if spec.kind == kindInvoice {
		cbc(root, "LineCountNumeric", strconv.Itoa(len(doc.Lines())))
	}
	if h.SourceID != "" {
		ref := root.CreateElement("cac:AdditionalDocumentReference")
		cbc(ref, "ID", h.SourceID)
		cbc(ref, "DocumentTypeCode", string(h.SourceType))
	}

	writeParties(root, spec.kind, p)

	if doc.Profile().Priced {
		if spec.kind == kindInvoice {
			writePaymentTerms(root, doc)
		}
		writeTaxTotal(root, "cac:TaxTotal", doc.Totals().TaxAmount, doc.Totals().Subtotal, doc.Policy().TaxRate, h.Currency)
		if spec.kind == kindInvoice && doc.Totals().RetentionAmount.IsPositive() {
			wt := root.CreateElement("cac:WithholdingTaxTotal")
			amount(wt, "TaxAmount", doc.Totals().RetentionAmount, h.Currency)
		}
		writeMonetaryTotal(root, spec.kind, doc)
	}

	for i, l := range doc.Lines() {
		writeLine(root, spec.kind, i+1, l, doc)
	}
	return root
}

// writeParties cliente, proveedor o transportista según el tipo de documento.
func writeParties(root *etree.Element, k kind, p documents.Preview) {
	h := p.Document.Header()
	name := ""
	if p.Customer != nil {
		name = p.Customer.Name
	}
	switch k {
	case kindInvoice:
		if h.CustomerID != "" {
			party(root.CreateElement("cac:AccountingCustomerParty"), h.CustomerID, customerTaxID(p), name)
		}
	case kindOrder:
		if h.CustomerID != "" {
			party(root.CreateElement("cac:BuyerCustomerParty"), h.CustomerID, customerTaxID(p), name)
		}
		if h.SupplierID != "" {
			party(root.CreateElement("cac:SellerSupplierParty"), h.SupplierID, "", "")
		}
	case kindDespatch:
		if h.CustomerID != "" {
			party(root.CreateElement("cac:DeliveryCustomerParty"), h.CustomerID, customerTaxID(p), name)
		}
		if h.CarrierID != "" {
			sh := root.CreateElement("cac:Shipment")
			cbc(sh, "ID", "1")
			stage := sh.CreateElement("cac:ShipmentStage")
			party(stage.CreateElement("cac:CarrierParty"), h.CarrierID, "", "")
		}
	}
	if p.Warehouse != nil {
		loc := root.CreateElement("cac:Delivery").CreateElement("cac:DeliveryLocation")
		cbc(loc, "ID", p.Warehouse.ID)
		cbc(loc, "Description", p.Warehouse.Name)
	}
}

func customerTaxID(p documents.Preview) string {
	if p.Customer != nil {
		return p.Customer.TaxID
	}
	return ""
}

func party(parent *etree.Element, id, taxID, name string) {
	pt := parent.CreateElement("cac:Party")
	cbc(pt.CreateElement("cac:PartyIdentification"), "ID", nonEmpty(taxID, id))
	if name != "" {
		cbc(pt.CreateElement("cac:PartyLegalEntity"), "RegistrationName", name)
	}
}

// writePaymentTerms forma de pago y, al crédito, una cuota por PaymentTerms.
func writePaymentTerms(root *etree.Element, doc *document.Document) {
	cur := doc.Header().Currency
	switch doc.PaymentType() {
	case entity.PaymentTypeCash:
		pt := root.CreateElement("cac:PaymentTerms")
		cbc(pt, "ID", "FormaPago")
		cbc(pt, "PaymentMeansID", "Contado")
	case entity.PaymentTypeCredit:
		pt := root.CreateElement("cac:PaymentTerms")
		cbc(pt, "ID", "FormaPago")
		cbc(pt, "PaymentMeansID", "Credito")
		amount(pt, "Amount", doc.Totals().NetPayable, cur)
		issue := doc.Header().IssueDate
		for i, in := range doc.Installments() {
			q := root.CreateElement("cac:PaymentTerms")
			cbc(q, "ID", "FormaPago")
			cbc(q, "PaymentMeansID", fmt.Sprintf("Cuota%03d", i+1))
			amount(q, "Amount", in.Amount, cur)
			if !issue.IsZero() {
				cbc(q, "PaymentDueDate", issue.AddDate(0, 0, in.DueDays).Format(dateLayout))
			}
		}
	}
}

func writeTaxTotal(parent *etree.Element, tag string, tax, taxable, rate decimal.Decimal, cur string) {
	tt := parent.CreateElement(tag)
	amount(tt, "TaxAmount", tax, cur)
	sub := tt.CreateElement("cac:TaxSubtotal")
	amount(sub, "TaxableAmount", taxable, cur)
	amount(sub, "TaxAmount", tax, cur)
	cat := sub.CreateElement("cac:TaxCategory")
	cbc(cat, "Percent", rate.Shift(2).String())
	scheme := cat.CreateElement("cac:TaxScheme")
	cbc(scheme, "ID", igvSchemeID)
	cbc(scheme, "Name", igvSchemeName)
}

func writeMonetaryTotal(root *etree.Element, k kind, doc *document.Document) {
	tag := "cac:LegalMonetaryTotal"
	if k == kindOrder {
		tag = "cac:AnticipatedMonetaryTotal"
	}
	t := doc.Totals()
	cur := doc.Header().Currency
	mt := root.CreateElement(tag)
	amount(mt, "LineExtensionAmount", t.Subtotal, cur)
	amount(mt, "TaxInclusiveAmount", t.Total, cur)
	amount(mt, "PayableAmount", t.NetPayable, cur)
}

func writeLine(root *etree.Element, k kind, n int, l entity.LineItem, doc *document.Document) {
	cur := doc.Header().Currency
	id := strconv.Itoa(n)
	var el *etree.Element
	switch k {
	case kindInvoice:
		el = root.CreateElement("cac:InvoiceLine")
		cbc(el, "ID", id)
		cbc(el, "InvoicedQuantity", l.Quantity.String())
	case kindOrder:
		el = root.CreateElement("cac:OrderLine").CreateElement("cac:LineItem")
		cbc(el, "ID", id)
		cbc(el, "Quantity", l.Quantity.String())
	case kindDespatch:
		el = root.CreateElement("cac:DespatchLine")
		cbc(el, "ID", id)
		cbc(el, "DeliveredQuantity", l.Quantity.String())
		cbc(el.CreateElement("cac:OrderLineReference"), "LineID", id)
	}

	if doc.Profile().Priced {
		amount(el, "LineExtensionAmount", l.Subtotal, cur)
		if k == kindInvoice {
			writeTaxTotal(el, "cac:TaxTotal", l.TaxAmount, l.Subtotal, doc.Policy().TaxRate, cur)
		}
	}

	item := el.CreateElement("cac:Item")
	cbc(item, "Description", nonEmpty(l.Description, l.ProductID))
	cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", l.ProductID)

	if doc.Profile().Priced {
		unit := pricing.ExclusiveUnitValue(l.UnitPrice, l.TaxIncluded, doc.Policy().TaxRate)
		amount(el.CreateElement("cac:Price"), "PriceAmount", unit, cur)
	}
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, local string, v decimal.Decimal, currency string) {
	el := cbc(parent, local, money.Display(v))
	if currency != "" {
		el.CreateAttr("currencyID", currency)
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
