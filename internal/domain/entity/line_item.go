package entity

import "github.com/shopspring/decimal"

// LineItem representa una fila de producto/componente dentro de un documento.
// Subtotal, TaxAmount y Total son derivados: se recalculan ante cualquier cambio
// de Quantity, UnitPrice o TaxIncluded y nunca se aceptan desde el exterior.
type LineItem struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxIncluded bool // true: UnitPrice ya incluye IGV
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
}

// Installment cuota de una venta al crédito: días de vencimiento y monto.
type Installment struct {
	DueDays int             `json:"due_days"`
	Amount  decimal.Decimal `json:"amount"`
}
