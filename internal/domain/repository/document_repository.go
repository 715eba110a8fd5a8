package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// DocumentRepository escritura de documentos registrados. Se usa dentro de una transacción.
type DocumentRepository interface {
	// CreateHeader inserta la cabecera y asigna el número correlativo.
	CreateHeader(ctx context.Context, companyID, userID string, p *dto.DocumentPayload) (*entity.PersistedDocument, error)
	CreateDetails(ctx context.Context, documentID string, details []dto.DetailPayload) error
	CreateInstallments(ctx context.Context, documentID string, installments []dto.InstallmentPayload) error
	CreatePayments(ctx context.Context, documentID string, payments []dto.PaymentPayload) error
}
