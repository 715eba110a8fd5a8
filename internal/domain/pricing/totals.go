package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// Totals agregados del documento.
type Totals struct {
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	RetentionAmount decimal.Decimal
	NetPayable      decimal.Decimal
}

// ComputeTotals suma los detalles y aplica la retención cuando retention es true.
// Siempre se deriva de los detalles actuales; no hay acumulados en caché.
func ComputeTotals(lines []entity.LineItem, retention bool, retentionRate decimal.Decimal) Totals {
	subtotal, tax := decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
		tax = tax.Add(l.TaxAmount)
	}
	subtotal = money.Internal(subtotal)
	tax = money.Internal(tax)
	total := money.Internal(subtotal.Add(tax))

	retentionAmount := decimal.Zero
	if retention {
		retentionAmount = money.Internal(total.Mul(retentionRate))
	}
	return Totals{
		Subtotal:        subtotal,
		TaxAmount:       tax,
		Total:           total,
		RetentionAmount: retentionAmount,
		NetPayable:      money.Internal(total.Sub(retentionAmount)),
	}
}
