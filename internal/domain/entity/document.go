package entity

import "time"

// DocumentType tipo de documento comercial que compone el motor.
type DocumentType string

// Tipos de documento soportados.
const (
	DocumentTypeOrder                DocumentType = "ORDER"                  // Pedido
	DocumentTypeSale                 DocumentType = "SALE"                   // Venta
	DocumentTypePurchaseOrder        DocumentType = "PURCHASE_ORDER"         // Orden de compra
	DocumentTypeProduction           DocumentType = "PRODUCTION"             // Documento de producción
	DocumentTypeShippingGuide        DocumentType = "SHIPPING_GUIDE"         // Guía de remisión remitente
	DocumentTypeShippingGuideCarrier DocumentType = "SHIPPING_GUIDE_CARRIER" // Guía de remisión transportista
)

// PaymentType condición de pago del documento.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "CONTADO"
	PaymentTypeCredit PaymentType = "CREDITO"
)

// PaymentMethod medio de pago para ventas al contado.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"   // efectivo
	PaymentMethodCard   PaymentMethod = "card"   // tarjeta
	PaymentMethodWallet PaymentMethod = "wallet" // billetera digital
)

// PaymentMethods lista ordenada de medios de pago válidos.
var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodWallet}

// Valid indica si el medio de pago es uno de los conocidos.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Header campos de cabecera del documento (copiados tal cual; no son calculados).
type Header struct {
	CustomerID    string     `json:"customer_id,omitempty"`
	SupplierID    string     `json:"supplier_id,omitempty"`
	WarehouseID   string     `json:"warehouse_id,omitempty"`
	CarrierID     string     `json:"carrier_id,omitempty"`
	IssueDate     time.Time  `json:"issue_date"`
	Currency      string     `json:"currency,omitempty"`       // PEN, USD
	PriceCategory string     `json:"price_category,omitempty"` // categoría de precio del cliente para precios por defecto
	Observations  string     `json:"observations,omitempty"`
	SourceType    SourceType `json:"source_type,omitempty"`
	SourceID      string     `json:"source_id,omitempty"`
}

// PersistedDocument recurso devuelto por el límite de persistencia tras guardar un documento.
type PersistedDocument struct {
	ID        string
	Type      DocumentType
	Number    string
	CreatedAt time.Time
}
