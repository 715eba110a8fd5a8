package documents

import (
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/pkg/money"
)

// ToDraftResponse arma la respuesta con montos de presentación (2 decimales).
func ToDraftResponse(sd *StoredDraft, doc *document.Document) *dto.DraftResponse {
	h := doc.Header()
	resp := &dto.DraftResponse{
		ID:           sd.ID,
		DocumentType: string(doc.Type()),
		Header: dto.HeaderResponse{
			CustomerID:    h.CustomerID,
			SupplierID:    h.SupplierID,
			WarehouseID:   h.WarehouseID,
			CarrierID:     h.CarrierID,
			Currency:      h.Currency,
			PriceCategory: h.PriceCategory,
			Observations:  h.Observations,
			SourceType:    string(h.SourceType),
			SourceID:      h.SourceID,
		},
		PaymentType:  string(doc.PaymentType()),
		Retention:    doc.Retention(),
		Lines:        []dto.LineResponse{},
		Installments: []dto.InstallmentResponse{},
		Issues:       []string{},
		UpdatedAt:    sd.UpdatedAt,
	}
	if !h.IssueDate.IsZero() {
		resp.Header.IssueDate = h.IssueDate.Format(dateLayout)
	}

	for i, l := range doc.Lines() {
		resp.Lines = append(resp.Lines, dto.LineResponse{
			Index:       i,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   money.Display(l.UnitPrice),
			IsIGV:       l.TaxIncluded,
			Subtotal:    money.Display(l.Subtotal),
			TaxAmount:   money.Display(l.TaxAmount),
			Total:       money.Display(l.Total),
		})
	}
	for i, in := range doc.Installments() {
		resp.Installments = append(resp.Installments, dto.InstallmentResponse{
			Index: i, DueDays: in.DueDays, Amount: money.Display(in.Amount),
		})
	}
	if doc.PaymentType() == entity.PaymentTypeCash {
		resp.PaymentMethods = map[string]string{}
		for m, a := range doc.PaymentAmounts() {
			resp.PaymentMethods[string(m)] = money.Display(a)
		}
	}

	t := doc.Totals()
	resp.Totals = dto.TotalsResponse{
		Subtotal:        money.Display(t.Subtotal),
		TaxAmount:       money.Display(t.TaxAmount),
		Total:           money.Display(t.Total),
		RetentionAmount: money.Display(t.RetentionAmount),
		NetPayable:      money.Display(t.NetPayable),
	}

	for _, err := range doc.Issues() {
		resp.Issues = append(resp.Issues, err.Error())
	}
	resp.CanSubmit = len(resp.Issues) == 0
	return resp
}
