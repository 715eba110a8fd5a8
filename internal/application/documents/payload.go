package documents

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// BuildPayload normaliza el documento para el límite de persistencia.
// Es el único punto donde los IDs de texto pasan a numéricos y los decimales a números JSON.
// installments va siempre presente ([] al contado); payment_methods solo al contado.
func BuildPayload(doc *document.Document) (dto.DocumentPayload, error) {
	h := doc.Header()
	t := doc.Totals()
	p := dto.DocumentPayload{
		DocumentType:    string(doc.Type()),
		Currency:        h.Currency,
		Observations:    h.Observations,
		PaymentType:     string(doc.PaymentType()),
		Retention:       doc.Retention(),
		SourceType:      string(h.SourceType),
		Subtotal:        t.Subtotal.InexactFloat64(),
		TaxAmount:       t.TaxAmount.InexactFloat64(),
		Total:           t.Total.InexactFloat64(),
		RetentionAmount: t.RetentionAmount.InexactFloat64(),
		NetPayable:      t.NetPayable.InexactFloat64(),
		Details:         []dto.DetailPayload{},
		Installments:    []dto.InstallmentPayload{},
	}
	if !h.IssueDate.IsZero() {
		p.IssueDate = h.IssueDate.Format(dateLayout)
	}

	refs := []struct {
		name string
		src  string
		dst  **int64
	}{
		{"customer_id", h.CustomerID, &p.CustomerID},
		{"supplier_id", h.SupplierID, &p.SupplierID},
		{"warehouse_id", h.WarehouseID, &p.WarehouseID},
		{"carrier_id", h.CarrierID, &p.CarrierID},
		{"source_id", h.SourceID, &p.SourceID},
	}
	for _, r := range refs {
		id, err := optionalID(r.name, r.src)
		if err != nil {
			return dto.DocumentPayload{}, err
		}
		*r.dst = id
	}

	for i, l := range doc.Lines() {
		pid, err := parseID(fmt.Sprintf("details[%d].product_id", i), l.ProductID)
		if err != nil {
			return dto.DocumentPayload{}, err
		}
		p.Details = append(p.Details, dto.DetailPayload{
			ProductID:   pid,
			Description: l.Description,
			Quantity:    l.Quantity.InexactFloat64(),
			UnitPrice:   l.UnitPrice.InexactFloat64(),
			IsIGV:       l.TaxIncluded,
			Subtotal:    l.Subtotal.InexactFloat64(),
			TaxAmount:   l.TaxAmount.InexactFloat64(),
			Total:       l.Total.InexactFloat64(),
		})
	}

	switch doc.PaymentType() {
	case entity.PaymentTypeCredit:
		for _, in := range doc.Installments() {
			p.Installments = append(p.Installments, dto.InstallmentPayload{
				DueDays: in.DueDays, Amount: in.Amount.InexactFloat64(),
			})
		}
	case entity.PaymentTypeCash:
		amounts := doc.PaymentAmounts()
		methods := make([]string, 0, len(amounts))
		for m := range amounts {
			methods = append(methods, string(m))
		}
		sort.Strings(methods)
		p.PaymentMethods = make([]dto.PaymentPayload, 0, len(methods))
		for _, m := range methods {
			p.PaymentMethods = append(p.PaymentMethods, dto.PaymentPayload{
				Method: m, Amount: amounts[entity.PaymentMethod(m)].InexactFloat64(),
			})
		}
	}
	return p, nil
}

func parseID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s no es un identificador numérico: %q", domain.ErrInvalidInput, field, s)
	}
	return id, nil
}

func optionalID(field, s string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := parseID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
