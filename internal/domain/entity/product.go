package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product entidad de catálogo (solo lectura para el motor de documentos).
type Product struct {
	ID          string
	CompanyID   string
	SKU         string
	Name        string
	UnitMeasure string
	Prices      []ProductPrice
	Stock       *decimal.Decimal // opcional: nil si no se controla stock
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPrice precio unitario por categoría de cliente y moneda.
type ProductPrice struct {
	Category    string
	Currency    string
	Price       decimal.Decimal
	TaxIncluded bool
}

// PriceFor devuelve el precio para la categoría y moneda indicadas.
// Si no hay precio exacto para la categoría se usa el de categoría vacía (general) en la misma moneda.
func (p *Product) PriceFor(category, currency string) (ProductPrice, bool) {
	var fallback *ProductPrice
	for i := range p.Prices {
		pr := &p.Prices[i]
		if pr.Currency != currency {
			continue
		}
		if pr.Category == category {
			return *pr, true
		}
		if pr.Category == "" && fallback == nil {
			fallback = pr
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return ProductPrice{}, false
}
