package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ repository.SourceDocumentRepository = (*SourceDocumentRepo)(nil)

// SourceDocumentRepo lectura de documentos origen. Las cotizaciones viven en su propia
// tabla; pedidos, compras y guías son documentos ya registrados por el motor.
type SourceDocumentRepo struct {
	q Querier
}

// NewSourceDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSourceDocumentRepository(q Querier) *SourceDocumentRepo {
	return &SourceDocumentRepo{q: q}
}

// registeredSources tipo de documento registrado que corresponde a cada origen.
var registeredSources = map[entity.SourceType]entity.DocumentType{
	entity.SourceTypeOrder:    entity.DocumentTypeOrder,
	entity.SourceTypePurchase: entity.DocumentTypePurchaseOrder,
	entity.SourceTypeGuide:    entity.DocumentTypeShippingGuide,
}

// GetByID obtiene el documento origen con sus detalles; nil si no existe.
func (r *SourceDocumentRepo) GetByID(ctx context.Context, st entity.SourceType, id string) (*entity.SourceDocument, error) {
	if st == entity.SourceTypeQuotation {
		return r.getQuotation(ctx, id)
	}
	docType, ok := registeredSources[st]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSource, st)
	}
	query := `
		SELECT id::text, company_id::text, COALESCE(customer_id::text, ''), COALESCE(supplier_id::text, ''),
		       COALESCE(warehouse_id::text, ''), COALESCE(currency, ''), COALESCE(observations, ''),
		       COALESCE(source_id::text, '')
		FROM documents WHERE id = $1 AND document_type = $2`
	src := entity.SourceDocument{Type: st}
	err := r.q.QueryRow(ctx, query, id, string(docType)).Scan(
		&src.ID, &src.CompanyID, &src.CustomerID, &src.SupplierID,
		&src.WarehouseID, &src.Currency, &src.Observations, &src.LinkedDocumentID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get source document: %w", err)
	}
	src.Details, err = r.documentLines(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// LinkedPrices precios por producto del documento vinculado a una guía (primera línea por producto).
func (r *SourceDocumentRepo) LinkedPrices(ctx context.Context, linkedID string) (map[string]entity.SourceLine, error) {
	lines, err := r.documentLines(ctx, linkedID)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]entity.SourceLine, len(lines))
	for _, l := range lines {
		if _, seen := prices[l.ProductID]; !seen {
			prices[l.ProductID] = l
		}
	}
	return prices, nil
}

func (r *SourceDocumentRepo) getQuotation(ctx context.Context, id string) (*entity.SourceDocument, error) {
	query := `
		SELECT id::text, company_id::text, COALESCE(customer_id::text, ''), COALESCE(warehouse_id::text, ''),
		       COALESCE(currency, ''), COALESCE(observations, '')
		FROM quotations WHERE id = $1`
	src := entity.SourceDocument{Type: entity.SourceTypeQuotation}
	err := r.q.QueryRow(ctx, query, id).Scan(
		&src.ID, &src.CompanyID, &src.CustomerID, &src.WarehouseID, &src.Currency, &src.Observations,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	src.Details, err = r.scanLines(ctx, `
		SELECT product_id::text, COALESCE(description, ''), quantity, unit_price, is_igv
		FROM quotation_details WHERE quotation_id = $1 ORDER BY line_no`, src.ID)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func (r *SourceDocumentRepo) documentLines(ctx context.Context, documentID string) ([]entity.SourceLine, error) {
	return r.scanLines(ctx, `
		SELECT product_id::text, COALESCE(description, ''), quantity, unit_price, is_igv
		FROM document_details WHERE document_id = $1 ORDER BY line_no`, documentID)
}

func (r *SourceDocumentRepo) scanLines(ctx context.Context, query, id string) ([]entity.SourceLine, error) {
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list source details: %w", err)
	}
	defer rows.Close()
	var lines []entity.SourceLine
	for rows.Next() {
		var l entity.SourceLine
		if err := rows.Scan(&l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice, &l.TaxIncluded); err != nil {
			return nil, fmt.Errorf("scan source detail: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
