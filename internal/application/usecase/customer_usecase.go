package usecase

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// CustomerUseCase consulta de clientes para la cabecera del documento.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// List lista clientes por empresa con paginación.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.CustomerResponse{
			ID:            c.ID,
			Name:          c.Name,
			TaxID:         c.TaxID,
			PriceCategory: c.PriceCategory,
			Email:         c.Email,
			Phone:         c.Phone,
		})
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
