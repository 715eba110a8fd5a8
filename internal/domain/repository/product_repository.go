package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos con sus precios y stock (DIP).
// El motor de documentos nunca escribe en el catálogo.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Product, error)
}
