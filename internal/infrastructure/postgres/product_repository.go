package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura de productos y sus precios sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id::text, company_id::text, sku, name, unit_measure, stock, created_at, updated_at`

// GetByID obtiene un producto con sus precios; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.UnitMeasure, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadPrices(ctx, []*entity.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByCompany lista productos de la empresa; search filtra por nombre o SKU.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.UnitMeasure, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadPrices(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadPrices carga en una sola consulta los precios por categoría y moneda.
func (r *ProductRepo) loadPrices(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id::text, COALESCE(category, ''), currency, price, is_igv
		FROM product_prices WHERE product_id::text = ANY($1)
		ORDER BY product_id, category, currency`, ids)
	if err != nil {
		return fmt.Errorf("list product prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var pr entity.ProductPrice
		if err := rows.Scan(&productID, &pr.Category, &pr.Currency, &pr.Price, &pr.TaxIncluded); err != nil {
			return fmt.Errorf("scan product price: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Prices = append(p.Prices, pr)
		}
	}
	return rows.Err()
}
