package repository

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// WarehouseRepository puerto de lectura de almacenes.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Warehouse, error)
}
