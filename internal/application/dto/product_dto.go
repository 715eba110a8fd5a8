package dto

import "github.com/shopspring/decimal"

// ProductListRequest filtros para GET /api/products.
type ProductListRequest struct {
	PageRequest
	Search string `query:"search" validate:"max=100"`
}

// ProductResponse producto de catálogo para búsquedas del formulario.
type ProductResponse struct {
	ID          string                 `json:"id"`
	SKU         string                 `json:"sku"`
	Name        string                 `json:"name"`
	UnitMeasure string                 `json:"unit_measure"`
	Prices      []ProductPriceResponse `json:"prices"`
	Stock       *decimal.Decimal       `json:"stock,omitempty"`
}

// ProductPriceResponse precio por categoría de cliente y moneda.
type ProductPriceResponse struct {
	Category string          `json:"category,omitempty"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	IsIGV    bool            `json:"is_igv"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
