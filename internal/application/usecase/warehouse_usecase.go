package usecase

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// WarehouseUseCase lista los almacenes de la empresa.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// List almacenes de la empresa ordenados por nombre.
func (uc *WarehouseUseCase) List(ctx context.Context, companyID string) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, dto.WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address})
	}
	return items, nil
}
