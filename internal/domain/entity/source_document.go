package entity

import "github.com/shopspring/decimal"

// SourceType tipo de documento origen desde el cual se importan detalles.
type SourceType string

const (
	SourceTypeQuotation SourceType = "QUOTATION" // Cotización
	SourceTypeOrder     SourceType = "ORDER"     // Pedido
	SourceTypePurchase  SourceType = "PURCHASE"  // Compra previa
	SourceTypeGuide     SourceType = "GUIDE"     // Guía de remisión
)

// SourceDocument documento externo de solo lectura (cotización, pedido, compra o guía).
// El motor nunca lo modifica.
type SourceDocument struct {
	ID           string
	CompanyID    string
	Type         SourceType
	CustomerID   string
	SupplierID   string
	WarehouseID  string
	Currency     string
	Observations string
	// LinkedDocumentID venta/compra asociada a una guía; de ella se toman los precios.
	LinkedDocumentID string
	Details          []SourceLine
}

// SourceLine detalle de un documento origen.
// En guías UnitPrice llega en cero: el precio se busca en el documento vinculado.
type SourceLine struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxIncluded bool // is_igv
}
