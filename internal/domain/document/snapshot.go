package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// Snapshot entradas de un documento en borrador, sin montos derivados.
// Permite guardar el borrador fuera del proceso; Restore vuelve a derivar todo.
type Snapshot struct {
	Type         entity.DocumentType                      `json:"type"`
	Header       entity.Header                            `json:"header"`
	Lines        []LineInput                              `json:"lines"`
	PaymentType  entity.PaymentType                       `json:"payment_type,omitempty"`
	Retention    bool                                     `json:"retention"`
	Installments []entity.Installment                     `json:"installments,omitempty"`
	Payments     map[entity.PaymentMethod]decimal.Decimal `json:"payments,omitempty"`
}

// Snapshot captura las entradas actuales.
func (d *Document) Snapshot() Snapshot {
	lines := make([]LineInput, 0, d.lines.Len())
	for _, it := range d.lines.items {
		lines = append(lines, LineInput{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxIncluded: it.TaxIncluded,
		})
	}
	return Snapshot{
		Type:         d.profile.Type,
		Header:       d.header,
		Lines:        lines,
		PaymentType:  d.paymentType,
		Retention:    d.retention,
		Installments: d.Installments(),
		Payments:     d.PaymentAmounts(),
	}
}

// Restore reconstruye un documento desde un Snapshot con la política vigente.
// Cuotas y medios de pago se restauran tal cual (ya pasaron sus validaciones al
// ingresarse); los totales se recalculan desde los detalles.
func Restore(s Snapshot, policy Policy) (*Document, error) {
	d, err := New(s.Type, policy)
	if err != nil {
		return nil, err
	}
	d.header = s.Header
	if s.PaymentType != "" && d.profile.Payments {
		d.paymentType = s.PaymentType
	}
	if d.profile.Retention {
		d.retention = s.Retention
	}
	if err := d.lines.ReplaceAll(s.Lines); err != nil {
		return nil, err
	}
	if d.paymentType == entity.PaymentTypeCredit {
		d.installments = append([]entity.Installment(nil), s.Installments...)
	}
	if d.paymentType == entity.PaymentTypeCash {
		for m, a := range s.Payments {
			d.payments[m] = a
		}
	}
	return d, nil
}
