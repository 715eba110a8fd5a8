package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// DefaultCurrency moneda de un borrador nuevo.
const DefaultCurrency = "PEN"

// Operaciones de borrador para Metrics.DraftMutated.
const (
	OpCreate            = "create"
	OpHeader            = "header"
	OpAddLine           = "add_line"
	OpUpdateLine        = "update_line"
	OpRemoveLine        = "remove_line"
	OpPaymentType       = "payment_type"
	OpRetention         = "retention"
	OpAddInstallment    = "add_installment"
	OpUpdateInstallment = "update_installment"
	OpRemoveInstallment = "remove_installment"
	OpPaymentMethods    = "payment_methods"
	OpImport            = "import"
)

// DraftUseCase casos de uso de composición de borradores. Cada borrador es un
// documento independiente; se restaura, se muta y se vuelve a guardar.
type DraftUseCase struct {
	store      DraftStore
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	warehouses repository.WarehouseRepository
	importer   *Importer
	policy     document.Policy
	metrics    Metrics
	now        func() time.Time
}

// NewDraftUseCase construye el caso de uso. metrics puede ser nil.
func NewDraftUseCase(
	store DraftStore,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	warehouses repository.WarehouseRepository,
	importer *Importer,
	policy document.Policy,
	metrics Metrics,
) *DraftUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &DraftUseCase{
		store:      store,
		products:   products,
		customers:  customers,
		warehouses: warehouses,
		importer:   importer,
		policy:     policy,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Create abre un borrador vacío del tipo indicado.
func (uc *DraftUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	doc, err := document.New(entity.DocumentType(in.DocumentType), uc.policy)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	doc.SetHeader(entity.Header{IssueDate: dateOnly(now), Currency: DefaultCurrency})

	sd := &StoredDraft{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    userID,
		Snapshot:  doc.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.store.Save(ctx, sd); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	uc.metrics.DraftMutated(OpCreate)
	return ToDraftResponse(sd, doc), nil
}

// Get devuelve el estado del borrador.
func (uc *DraftUseCase) Get(ctx context.Context, companyID, id string) (*dto.DraftResponse, error) {
	sd, doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToDraftResponse(sd, doc), nil
}

// Document restaura el documento del borrador (vista previa, exportación).
func (uc *DraftUseCase) Document(ctx context.Context, companyID, id string) (*document.Document, error) {
	_, doc, err := uc.load(ctx, companyID, id)
	return doc, err
}

// Delete descarta el borrador (cancelar formulario).
func (uc *DraftUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, _, err := uc.load(ctx, companyID, id); err != nil {
		return err
	}
	return uc.store.Delete(ctx, id)
}

// SetHeader valida las referencias de cabecera contra los datos de la empresa y las aplica.
// La categoría de precio se toma del cliente.
func (uc *DraftUseCase) SetHeader(ctx context.Context, companyID, id string, in dto.HeaderRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpHeader, func(doc *document.Document) error {
		h := doc.Header()
		h.CustomerID = in.CustomerID
		h.SupplierID = in.SupplierID
		h.WarehouseID = in.WarehouseID
		h.CarrierID = in.CarrierID
		h.Observations = in.Observations
		if in.Currency != "" {
			h.Currency = in.Currency
		}
		if in.IssueDate != "" {
			d, err := time.Parse(dateLayout, in.IssueDate)
			if err != nil {
				return fmt.Errorf("%w: fecha de emisión", domain.ErrInvalidInput)
			}
			h.IssueDate = d
		}
		if err := uc.resolveReferences(ctx, companyID, &h); err != nil {
			return err
		}
		doc.SetHeader(h)
		return nil
	})
}

// AddLine agrega un detalle. Sin precio se usa el del producto para la categoría y moneda del documento.
func (uc *DraftUseCase) AddLine(ctx context.Context, companyID, id string, in dto.LineRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpAddLine, func(doc *document.Document) error {
		li, err := uc.lineInput(ctx, companyID, doc, in)
		if err != nil {
			return err
		}
		return doc.AddLine(li)
	})
}

// UpdateLine reemplaza el detalle en la posición index.
func (uc *DraftUseCase) UpdateLine(ctx context.Context, companyID, id string, index int, in dto.LineRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpUpdateLine, func(doc *document.Document) error {
		li, err := uc.lineInput(ctx, companyID, doc, in)
		if err != nil {
			return err
		}
		return doc.UpdateLine(index, li)
	})
}

// RemoveLine elimina el detalle en la posición index.
func (uc *DraftUseCase) RemoveLine(ctx context.Context, companyID, id string, index int) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpRemoveLine, func(doc *document.Document) error {
		return doc.RemoveLine(index)
	})
}

// SetPaymentType cambia entre contado y crédito.
func (uc *DraftUseCase) SetPaymentType(ctx context.Context, companyID, id string, in dto.PaymentTypeRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpPaymentType, func(doc *document.Document) error {
		return doc.SetPaymentType(entity.PaymentType(in.PaymentType))
	})
}

// SetRetention marca o desmarca la retención.
func (uc *DraftUseCase) SetRetention(ctx context.Context, companyID, id string, in dto.RetentionRequest) (*dto.DraftResponse, error) {
	if in.Enabled == nil {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, companyID, id, OpRetention, func(doc *document.Document) error {
		return doc.SetRetention(*in.Enabled)
	})
}

// AddInstallment agrega una cuota manual.
func (uc *DraftUseCase) AddInstallment(ctx context.Context, companyID, id string, in dto.InstallmentRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpAddInstallment, func(doc *document.Document) error {
		return doc.AddInstallment(entity.Installment{DueDays: in.DueDays, Amount: in.Amount})
	})
}

// UpdateInstallment edita la cuota en la posición index.
func (uc *DraftUseCase) UpdateInstallment(ctx context.Context, companyID, id string, index int, in dto.InstallmentRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpUpdateInstallment, func(doc *document.Document) error {
		return doc.UpdateInstallment(index, entity.Installment{DueDays: in.DueDays, Amount: in.Amount})
	})
}

// RemoveInstallment elimina la cuota en la posición index.
func (uc *DraftUseCase) RemoveInstallment(ctx context.Context, companyID, id string, index int) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpRemoveInstallment, func(doc *document.Document) error {
		return doc.RemoveInstallment(index)
	})
}

// SetPaymentMethods reemplaza los montos por medio de pago.
func (uc *DraftUseCase) SetPaymentMethods(ctx context.Context, companyID, id string, in dto.PaymentMethodsRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpPaymentMethods, func(doc *document.Document) error {
		amounts := make(map[entity.PaymentMethod]decimal.Decimal, len(in.Amounts))
		for m, a := range in.Amounts {
			amounts[entity.PaymentMethod(m)] = a
		}
		return doc.SetPaymentAmounts(amounts)
	})
}

// Import reemplaza cabecera y detalles con los del documento origen.
// La fecha de emisión del borrador se conserva.
func (uc *DraftUseCase) Import(ctx context.Context, companyID, id string, in dto.ImportRequest) (*dto.DraftResponse, error) {
	return uc.mutate(ctx, companyID, id, OpImport, func(doc *document.Document) error {
		st := entity.SourceType(in.SourceType)
		if !doc.Profile().AllowsSource(st) {
			return fmt.Errorf("%w: %s no puede importarse en %s", domain.ErrInvalidSource, st, doc.Type())
		}
		h, lines, err := uc.importer.ImportFrom(ctx, companyID, st, in.SourceID)
		if err != nil {
			return err
		}
		current := doc.Header()
		h.IssueDate = current.IssueDate
		if h.Currency == "" {
			h.Currency = current.Currency
		}
		if err := uc.resolveReferences(ctx, companyID, &h); err != nil {
			return err
		}
		return doc.Import(h, lines)
	})
}

func (uc *DraftUseCase) mutate(ctx context.Context, companyID, id, op string, fn func(doc *document.Document) error) (*dto.DraftResponse, error) {
	sd, doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	sd.Snapshot = doc.Snapshot()
	sd.UpdatedAt = uc.now()
	if err := uc.store.Save(ctx, sd); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	uc.metrics.DraftMutated(op)
	return ToDraftResponse(sd, doc), nil
}

func (uc *DraftUseCase) load(ctx context.Context, companyID, id string) (*StoredDraft, *document.Document, error) {
	sd, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sd.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	doc, err := document.Restore(sd.Snapshot, uc.policy)
	if err != nil {
		return nil, nil, fmt.Errorf("restaurar borrador %s: %w", id, err)
	}
	return sd, doc, nil
}

// resolveReferences verifica cliente y almacén de la empresa y completa la categoría de precio.
func (uc *DraftUseCase) resolveReferences(ctx context.Context, companyID string, h *entity.Header) error {
	h.PriceCategory = ""
	if h.CustomerID != "" {
		c, err := uc.customers.GetByID(ctx, h.CustomerID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, h.CustomerID)
		}
		if c.CompanyID != companyID {
			return domain.ErrForbidden
		}
		h.PriceCategory = c.PriceCategory
	}
	if h.WarehouseID != "" {
		w, err := uc.warehouses.GetByID(ctx, h.WarehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%w: almacén %s", domain.ErrNotFound, h.WarehouseID)
		}
		if w.CompanyID != companyID {
			return domain.ErrForbidden
		}
	}
	return nil
}

// lineInput completa el detalle con los datos del producto: descripción y precio por defecto.
func (uc *DraftUseCase) lineInput(ctx context.Context, companyID string, doc *document.Document, in dto.LineRequest) (document.LineInput, error) {
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return document.LineInput{}, err
	}
	if p == nil {
		return document.LineInput{}, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if p.CompanyID != companyID {
		return document.LineInput{}, domain.ErrForbidden
	}

	li := document.LineInput{
		ProductID:   in.ProductID,
		Description: in.Description,
		Quantity:    in.Quantity,
		TaxIncluded: true,
	}
	if li.Description == "" {
		li.Description = p.Name
	}
	if in.IsIGV != nil {
		li.TaxIncluded = *in.IsIGV
	}
	switch {
	case in.UnitPrice != nil:
		li.UnitPrice = *in.UnitPrice
	case doc.Profile().Priced:
		h := doc.Header()
		if price, ok := p.PriceFor(h.PriceCategory, h.Currency); ok {
			li.UnitPrice = price.Price
			if in.IsIGV == nil {
				li.TaxIncluded = price.TaxIncluded
			}
		}
	}
	return li, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
