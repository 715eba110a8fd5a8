package usecase

import (
	"context"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

// ProductUseCase consultas de catálogo para el formulario (solo lectura).
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// GetByID obtiene un producto de la empresa. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// List busca productos por SKU o nombre con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, in.Search, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	prices := make([]dto.ProductPriceResponse, 0, len(p.Prices))
	for _, pr := range p.Prices {
		prices = append(prices, dto.ProductPriceResponse{
			Category: pr.Category,
			Currency: pr.Currency,
			Price:    pr.Price,
			IsIGV:    pr.TaxIncluded,
		})
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		UnitMeasure: p.UnitMeasure,
		Prices:      prices,
		Stock:       p.Stock,
	}
}
