// Package document implementa el motor genérico de composición de documentos
// comerciales: colección de detalles, totales, cuotas y medios de pago.
// Cada tipo de documento se configura con un Profile; no hay un motor por tipo.
package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// Profile conjunto de campos y reglas propios de un tipo de documento.
type Profile struct {
	Type              entity.DocumentType
	Label             string // nombre en mensajes al usuario
	RequiresCustomer  bool
	RequiresSupplier  bool
	RequiresWarehouse bool
	RequiresCarrier   bool
	Priced            bool // los detalles exigen precio unitario
	Payments          bool // aplica condición de pago (contado/crédito)
	Retention         bool // admite retención
	Sources           []entity.SourceType
}

// AllowsSource indica si el tipo de documento puede importar desde st.
func (p Profile) AllowsSource(st entity.SourceType) bool {
	for _, s := range p.Sources {
		if s == st {
			return true
		}
	}
	return false
}

// FallbackMessage mensaje genérico cuando el backend rechaza el documento sin detalle.
func (p Profile) FallbackMessage() string {
	return "no se pudo registrar " + p.Label + ", intente nuevamente"
}

var profiles = map[entity.DocumentType]Profile{
	entity.DocumentTypeOrder: {
		Type: entity.DocumentTypeOrder, Label: "el pedido",
		RequiresCustomer: true, RequiresWarehouse: true,
		Priced: true, Payments: true,
		Sources: []entity.SourceType{entity.SourceTypeQuotation},
	},
	entity.DocumentTypeSale: {
		Type: entity.DocumentTypeSale, Label: "la venta",
		RequiresCustomer: true, RequiresWarehouse: true,
		Priced: true, Payments: true, Retention: true,
		Sources: []entity.SourceType{entity.SourceTypeQuotation, entity.SourceTypeOrder, entity.SourceTypeGuide},
	},
	entity.DocumentTypePurchaseOrder: {
		Type: entity.DocumentTypePurchaseOrder, Label: "la orden de compra",
		RequiresSupplier: true, RequiresWarehouse: true,
		Priced: true, Payments: true,
		Sources: []entity.SourceType{entity.SourceTypePurchase},
	},
	entity.DocumentTypeProduction: {
		Type: entity.DocumentTypeProduction, Label: "el documento de producción",
		RequiresWarehouse: true,
	},
	entity.DocumentTypeShippingGuide: {
		Type: entity.DocumentTypeShippingGuide, Label: "la guía de remisión",
		RequiresCustomer: true, RequiresWarehouse: true,
		Sources: []entity.SourceType{entity.SourceTypeOrder},
	},
	entity.DocumentTypeShippingGuideCarrier: {
		Type: entity.DocumentTypeShippingGuideCarrier, Label: "la guía de remisión transportista",
		RequiresCarrier: true, RequiresWarehouse: true,
		Sources: []entity.SourceType{entity.SourceTypeGuide},
	},
}

// ProfileFor devuelve el perfil del tipo de documento.
func ProfileFor(t entity.DocumentType) (Profile, bool) {
	p, ok := profiles[t]
	return p, ok
}

// Policy constantes de negocio aplicadas por el motor.
type Policy struct {
	TaxRate       decimal.Decimal // IGV, 0.18
	RetentionRate decimal.Decimal // 0.03
	// RetentionCreditOnly limita la retención a documentos al crédito.
	RetentionCreditOnly bool
	DefaultCreditDays   int
}

// DefaultPolicy IGV 18%, retención 3% solo al crédito, cuota por defecto a 30 días.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:             decimal.New(18, -2),
		RetentionRate:       decimal.New(3, -2),
		RetentionCreditOnly: true,
		DefaultCreditDays:   30,
	}
}
