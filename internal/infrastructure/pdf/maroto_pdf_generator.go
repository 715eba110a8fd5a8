// Package pdf genera la vista previa imprimible de un borrador de documento comercial.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento      │  Borrador + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / ALMACÉN / MONEDA                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IGV | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Op. gravada / IGV / Total / Retención / Neto       │
//	│  CONDICIONES: cuotas o medios de pago                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: observaciones + pendientes                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 170, Green: 40, Blue: 40}
)

var titles = map[entity.DocumentType]string{
	entity.DocumentTypeOrder:                "PEDIDO",
	entity.DocumentTypeSale:                 "VENTA",
	entity.DocumentTypePurchaseOrder:        "ORDEN DE COMPRA",
	entity.DocumentTypeProduction:           "DOCUMENTO DE PRODUCCIÓN",
	entity.DocumentTypeShippingGuide:        "GUÍA DE REMISIÓN REMITENTE",
	entity.DocumentTypeShippingGuideCarrier: "GUÍA DE REMISIÓN TRANSPORTISTA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa documents.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

var _ documents.PDFRenderer = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador; author va en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// RenderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderPDF(_ context.Context, p documents.Preview) ([]byte, error) {
	if p.Document == nil {
		return nil, fmt.Errorf("pdf: borrador sin documento")
	}
	doc := p.Document

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(Title(doc.Type()), true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc)...)

	if doc.Profile().Priced {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(totalsRows(doc)...)
		m.AddRows(conditionRows(doc)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// Title nombre impreso del tipo de documento.
func Title(t entity.DocumentType) string {
	if s, ok := titles[t]; ok {
		return s
	}
	return string(t)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de documento (izq) y borrador + fecha de emisión (der).
func headerRow(p documents.Preview) core.Row {
	h := p.Document.Header()
	fecha := "-"
	if !h.IssueDate.IsZero() {
		fecha = h.IssueDate.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(Title(p.Document.Type()), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+p.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("BORRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorWarning, Top: 1,
			}),
			text.New(shortID(p.DraftID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: cliente (o proveedor/transportista), almacén y moneda.
func partiesRow(p documents.Preview) core.Row {
	h := p.Document.Header()

	party := "-"
	switch {
	case p.Customer != nil:
		party = fmt.Sprintf("%s   |   RUC/DNI: %s", p.Customer.Name, nonEmpty(p.Customer.TaxID, "-"))
	case h.CustomerID != "":
		party = "Cliente " + h.CustomerID
	case h.SupplierID != "":
		party = "Proveedor " + h.SupplierID
	case h.CarrierID != "":
		party = "Transportista " + h.CarrierID
	}

	warehouse := nonEmpty(h.WarehouseID, "-")
	if p.Warehouse != nil {
		warehouse = p.Warehouse.Name
	}

	return row.New(14).Add(
		col.New(8).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(party, props.Text{Style: fontstyle.Bold, Size: 9, Top: 6}),
		),
		col.New(4).Add(
			text.New("Almacén: "+warehouse, props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New("Moneda: "+nonEmpty(h.Currency, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 6, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IGV", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableDetailRows: una fila por detalle. Los detalles sin precio se marcan pendientes.
func tableDetailRows(doc *document.Document) []core.Row {
	lines := doc.Lines()
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		igv := "No"
		if l.TaxIncluded {
			igv = "Inc."
		}
		price, total := formatMoney(money.Display(l.UnitPrice)), formatMoney(money.Display(l.Total))
		if doc.Profile().Priced && !l.UnitPrice.IsPositive() {
			price, total = "pendiente", "-"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(nonEmpty(l.Description, l.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(price, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(igv, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(total, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha.
func totalsRows(doc *document.Document) []core.Row {
	t := doc.Totals()
	cur := doc.Header().Currency
	amount := func(v decimal.Decimal) string { return cur + " " + formatMoney(money.Display(v)) }

	entry := func(label, value string, grand bool) core.Row {
		st := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			st = props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}
		}
		lbl := st
		lbl.Style = fontstyle.Bold
		lbl.Right = 2
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lbl)),
			col.New(3).Add(text.New(value, st)),
		)
	}

	rows := []core.Row{
		entry("Op. gravada:", amount(t.Subtotal), false),
		entry(fmt.Sprintf("IGV %s%%:", doc.Policy().TaxRate.Shift(2).String()), amount(t.TaxAmount), false),
		entry("Total:", amount(t.Total), false),
	}
	if t.RetentionAmount.IsPositive() {
		rows = append(rows,
			entry(fmt.Sprintf("Retención %s%%:", doc.Policy().RetentionRate.Shift(2).String()), "-"+amount(t.RetentionAmount), false))
	}
	return append(rows, entry("NETO A PAGAR:", amount(t.NetPayable), true))
}

// conditionRows: condición de pago con cuotas (crédito) o medios de pago (contado).
func conditionRows(doc *document.Document) []core.Row {
	pt := doc.PaymentType()
	if pt == "" {
		return nil
	}
	label := "CONTADO"
	if pt == entity.PaymentTypeCredit {
		label = "CRÉDITO"
	}
	rows := []core.Row{row.New(7).Add(col.New(12).Add(
		text.New("CONDICIÓN DE PAGO: "+label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))}

	var entries []string
	switch pt {
	case entity.PaymentTypeCredit:
		for i, in := range doc.Installments() {
			entries = append(entries, fmt.Sprintf("Cuota %d: %s a %d días", i+1, formatMoney(money.Display(in.Amount)), in.DueDays))
		}
	case entity.PaymentTypeCash:
		amounts := doc.PaymentAmounts()
		for _, m := range entity.PaymentMethods {
			if a, ok := amounts[m]; ok {
				entries = append(entries, fmt.Sprintf("%s: %s", methodLabel(m), formatMoney(money.Display(a))))
			}
		}
	}
	for _, e := range entries {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(e, props.Text{Size: 8, Left: 2, Color: colorGray}),
		)))
	}
	return rows
}

// footerRows: observaciones, pendientes de validación y leyenda de borrador.
func footerRows(doc *document.Document) []core.Row {
	var rows []core.Row
	if obs := doc.Header().Observations; obs != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Observaciones: "+obs, props.Text{Size: 8, Top: 2}),
		)))
	}
	if issues := doc.Issues(); len(issues) > 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("PENDIENTES ANTES DE GUARDAR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWarning, Top: 1,
			}),
		)))
		for _, err := range issues {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New("• "+err.Error(), props.Text{Size: 7, Left: 2, Color: colorWarning}),
			)))
		}
	}
	return append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Vista previa de borrador. No tiene validez como comprobante.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2, Align: align.Center,
		}),
	)))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func methodLabel(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentMethodCash:
		return "Efectivo"
	case entity.PaymentMethodCard:
		return "Tarjeta"
	case entity.PaymentMethodWallet:
		return "Billetera digital"
	}
	return string(m)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney inserta comas de miles en un monto con dos decimales.
// Ej: "25000.50" → "25,000.50", "-1234567.00" → "-1,234,567.00"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
