package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo escritura de documentos registrados (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// seriesPrefix serie del correlativo por tipo de documento.
var seriesPrefix = map[entity.DocumentType]string{
	entity.DocumentTypeOrder:                "PED",
	entity.DocumentTypeSale:                 "VTA",
	entity.DocumentTypePurchaseOrder:        "OC",
	entity.DocumentTypeProduction:           "PRD",
	entity.DocumentTypeShippingGuide:        "GR",
	entity.DocumentTypeShippingGuideCarrier: "GRT",
}

// CreateHeader inserta la cabecera y asigna el número SERIE-correlativo. El contador por
// empresa y tipo se bloquea por fila hasta el fin de la transacción.
func (r *DocumentRepo) CreateHeader(ctx context.Context, companyID, userID string, p *dto.DocumentPayload) (*entity.PersistedDocument, error) {
	var issueDate *time.Time
	if p.IssueDate != "" {
		d, err := time.Parse("2006-01-02", p.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("issue date: %w", err)
		}
		issueDate = &d
	}
	query := `
		INSERT INTO documents (company_id, created_by, document_type, customer_id, supplier_id, warehouse_id, carrier_id,
		                       issue_date, currency, observations, payment_type, retention, source_type, source_id,
		                       subtotal, tax_amount, total, retention_amount, net_payable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, CURRENT_DATE), $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
		RETURNING id::text, created_at`
	doc := &entity.PersistedDocument{Type: entity.DocumentType(p.DocumentType)}
	err := r.q.QueryRow(ctx, query,
		companyID, nullIfEmpty(userID), p.DocumentType, p.CustomerID, p.SupplierID, p.WarehouseID, p.CarrierID,
		issueDate, nullIfEmpty(p.Currency), nullIfEmpty(p.Observations), nullIfEmpty(p.PaymentType), p.Retention,
		nullIfEmpty(p.SourceType), p.SourceID,
		p.Subtotal, p.TaxAmount, p.Total, p.RetentionAmount, p.NetPayable,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	var next int64
	err = r.q.QueryRow(ctx, `
		INSERT INTO document_series (company_id, document_type, last_number) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, document_type)
		DO UPDATE SET last_number = document_series.last_number + 1
		RETURNING last_number`, companyID, p.DocumentType).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next document number: %w", err)
	}
	doc.Number = fmt.Sprintf("%s-%06d", seriesPrefix[doc.Type], next)
	if _, err := r.q.Exec(ctx, `UPDATE documents SET number = $2 WHERE id = $1`, doc.ID, doc.Number); err != nil {
		return nil, fmt.Errorf("assign document number: %w", err)
	}
	return doc, nil
}

// CreateDetails inserta los detalles en lote conservando su orden.
func (r *DocumentRepo) CreateDetails(ctx context.Context, documentID string, details []dto.DetailPayload) error {
	rows := make([][]any, 0, len(details))
	for i, d := range details {
		rows = append(rows, []any{
			documentID, i + 1, d.ProductID, nullIfEmpty(d.Description),
			d.Quantity, d.UnitPrice, d.IsIGV, d.Subtotal, d.TaxAmount, d.Total,
		})
	}
	return r.batchInsert(ctx, `
		INSERT INTO document_details (document_id, line_no, product_id, description, quantity, unit_price, is_igv, subtotal, tax_amount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, rows, "document detail")
}

// CreateInstallments inserta las cuotas de crédito.
func (r *DocumentRepo) CreateInstallments(ctx context.Context, documentID string, installments []dto.InstallmentPayload) error {
	rows := make([][]any, 0, len(installments))
	for i, in := range installments {
		rows = append(rows, []any{documentID, i + 1, in.DueDays, in.Amount})
	}
	return r.batchInsert(ctx, `
		INSERT INTO document_installments (document_id, installment_no, due_days, amount)
		VALUES ($1, $2, $3, $4)`, rows, "document installment")
}

// CreatePayments inserta los montos por medio de pago.
func (r *DocumentRepo) CreatePayments(ctx context.Context, documentID string, payments []dto.PaymentPayload) error {
	rows := make([][]any, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []any{documentID, p.Method, p.Amount})
	}
	return r.batchInsert(ctx, `
		INSERT INTO document_payments (document_id, method, amount)
		VALUES ($1, $2, $3)`, rows, "document payment")
}

// batchInsert envía todas las filas en un pgx.Batch cuando el Querier lo soporta (pool o tx).
func (r *DocumentRepo) batchInsert(ctx context.Context, query string, rows [][]any, what string) error {
	if len(rows) == 0 {
		return nil
	}
	sender, ok := r.q.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		for _, args := range rows {
			if _, err := r.q.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("insert %s: %w", what, err)
			}
		}
		return nil
	}
	batch := &pgx.Batch{}
	for _, args := range rows {
		batch.Queue(query, args...)
	}
	br := sender.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert %s: %w", what, err)
		}
	}
	return nil
}
