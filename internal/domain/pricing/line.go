// Package pricing contiene el cálculo de impuestos por detalle y la agregación
// de totales del documento. Son funciones puras sobre decimal.Decimal.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// LineAmounts montos derivados de un detalle.
type LineAmounts struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// IsZero indica un detalle en borrador (cantidad o precio sin definir).
func (a LineAmounts) IsZero() bool {
	return a.Subtotal.IsZero() && a.TaxAmount.IsZero() && a.Total.IsZero()
}

// ComputeLine deriva subtotal, impuesto y total de un detalle.
//
//	sin IGV incluido: subtotal = q*p; igv = subtotal*tasa; total = subtotal+igv
//	con IGV incluido: total = q*p; subtotal = total/(1+tasa); igv = total-subtotal
//
// Cantidad o precio <= 0 devuelve todo en cero (detalle incompleto, no es error).
func ComputeLine(quantity, unitPrice decimal.Decimal, taxIncluded bool, taxRate decimal.Decimal) LineAmounts {
	if !quantity.IsPositive() || !unitPrice.IsPositive() {
		return LineAmounts{Subtotal: decimal.Zero, TaxAmount: decimal.Zero, Total: decimal.Zero}
	}
	gross := money.Internal(quantity.Mul(unitPrice))
	if taxIncluded {
		subtotal := money.Internal(gross.DivRound(decimal.NewFromInt(1).Add(taxRate), money.InternalPlaces+4))
		return LineAmounts{
			Subtotal:  subtotal,
			TaxAmount: money.Internal(gross.Sub(subtotal)),
			Total:     gross,
		}
	}
	tax := money.Internal(gross.Mul(taxRate))
	return LineAmounts{
		Subtotal:  gross,
		TaxAmount: tax,
		Total:     money.Internal(gross.Add(tax)),
	}
}

// ExclusiveUnitValue valor unitario sin impuesto, redondeado a la precisión interna.
func ExclusiveUnitValue(unitPrice decimal.Decimal, taxIncluded bool, taxRate decimal.Decimal) decimal.Decimal {
	if !taxIncluded {
		return money.Internal(unitPrice)
	}
	return money.Internal(unitPrice.DivRound(decimal.NewFromInt(1).Add(taxRate), money.InternalPlaces+4))
}

// Breakdown desglose de un total con impuesto incluido, listo para mostrarse.
type Breakdown struct {
	Base decimal.Decimal
	Tax  decimal.Decimal
}

// TaxBreakdown separa el impuesto contenido en un total con IGV incluido.
// El impuesto se trunca a 2 decimales para no mostrar nunca más impuesto del
// que realmente contiene el precio; la base absorbe la diferencia.
func TaxBreakdown(total, taxRate decimal.Decimal) Breakdown {
	if !total.IsPositive() {
		return Breakdown{Base: decimal.Zero, Tax: decimal.Zero}
	}
	base := total.DivRound(decimal.NewFromInt(1).Add(taxRate), money.InternalPlaces)
	tax := money.Truncate(total.Sub(base), money.DisplayPlaces)
	return Breakdown{Base: total.Sub(tax), Tax: tax}
}
