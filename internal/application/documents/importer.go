package documents

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// Importer traduce un documento origen a cabecera y detalles del motor.
type Importer struct {
	sources repository.SourceDocumentRepository
}

// NewImporter construye el importador.
func NewImporter(sources repository.SourceDocumentRepository) *Importer {
	return &Importer{sources: sources}
}

// ImportFrom lee el documento origen una sola vez y devuelve su cabecera y detalles.
// Cotización, pedido y compra conservan cantidad, precio e is_igv.
// En una guía el precio se toma del documento vinculado para el mismo producto; si no hay, queda en 0 (pendiente).
func (im *Importer) ImportFrom(ctx context.Context, companyID string, st entity.SourceType, sourceID string) (entity.Header, []document.LineInput, error) {
	src, err := im.sources.GetByID(ctx, st, sourceID)
	if err != nil {
		return entity.Header{}, nil, err
	}
	if src == nil {
		return entity.Header{}, nil, domain.ErrNotFound
	}
	if src.CompanyID != companyID {
		return entity.Header{}, nil, domain.ErrForbidden
	}

	h := entity.Header{
		CustomerID:   src.CustomerID,
		SupplierID:   src.SupplierID,
		WarehouseID:  src.WarehouseID,
		Currency:     src.Currency,
		Observations: src.Observations,
		SourceType:   st,
		SourceID:     src.ID,
	}

	var linked map[string]entity.SourceLine
	if st == entity.SourceTypeGuide && src.LinkedDocumentID != "" {
		linked, err = im.sources.LinkedPrices(ctx, src.LinkedDocumentID)
		if err != nil {
			return entity.Header{}, nil, err
		}
	}

	lines := make([]document.LineInput, 0, len(src.Details))
	for _, sl := range src.Details {
		in := document.LineInput{
			ProductID:   sl.ProductID,
			Description: sl.Description,
			Quantity:    sl.Quantity,
			UnitPrice:   sl.UnitPrice,
			TaxIncluded: sl.TaxIncluded,
		}
		if st == entity.SourceTypeGuide {
			in.UnitPrice, in.TaxIncluded = decimal.Zero, true
			if l, ok := linked[sl.ProductID]; ok {
				in.UnitPrice, in.TaxIncluded = l.UnitPrice, l.TaxIncluded
			}
		}
		lines = append(lines, in)
	}
	return h, lines, nil
}
