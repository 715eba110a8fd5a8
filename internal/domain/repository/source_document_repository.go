package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// SourceDocumentRepository puerto de lectura de documentos origen para importar.
type SourceDocumentRepository interface {
	// GetByID devuelve el documento con sus detalles; nil si no existe.
	GetByID(ctx context.Context, st entity.SourceType, id string) (*entity.SourceDocument, error)
	// LinkedPrices precios por producto del documento vinculado a una guía.
	LinkedPrices(ctx context.Context, linkedID string) (map[string]entity.SourceLine, error)
}
