package postgres

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ documents.Gateway = (*DocumentGateway)(nil)

// DocumentTxRunner transacción con el repositorio de documentos.
type DocumentTxRunner interface {
	RunDocuments(ctx context.Context, fn func(docs repository.DocumentRepository) error) error
}

// DocumentGateway límite de persistencia: registra cabecera, detalles, cuotas y medios de pago
// en una sola transacción.
type DocumentGateway struct {
	tx DocumentTxRunner
}

// NewDocumentGateway construye el gateway.
func NewDocumentGateway(tx DocumentTxRunner) *DocumentGateway {
	return &DocumentGateway{tx: tx}
}

// Submit registra el documento. Los errores de integridad vuelven como *domain.SubmissionError.
func (g *DocumentGateway) Submit(ctx context.Context, companyID, userID string, p dto.DocumentPayload) (*entity.PersistedDocument, error) {
	var persisted *entity.PersistedDocument
	err := g.tx.RunDocuments(ctx, func(docs repository.DocumentRepository) error {
		doc, err := docs.CreateHeader(ctx, companyID, userID, &p)
		if err != nil {
			return err
		}
		if err := docs.CreateDetails(ctx, doc.ID, p.Details); err != nil {
			return err
		}
		if err := docs.CreateInstallments(ctx, doc.ID, p.Installments); err != nil {
			return err
		}
		if err := docs.CreatePayments(ctx, doc.ID, p.PaymentMethods); err != nil {
			return err
		}
		persisted = doc
		return nil
	})
	if err != nil {
		return nil, rejection(err)
	}
	return persisted, nil
}
