package document

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial/internal/domain/pricing"
)

// LineInput datos editables de un detalle; los montos se derivan.
type LineInput struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxIncluded bool            `json:"is_igv"`
}

// LineCollection colección ordenada de detalles. Cada mutación recalcula el
// detalle afectado y avisa al dueño para que recalcule los totales.
type LineCollection struct {
	items    []entity.LineItem
	taxRate  decimal.Decimal
	priced   bool
	onChange func()
}

// NewLineCollection crea una colección vacía. onChange puede ser nil.
func NewLineCollection(taxRate decimal.Decimal, priced bool, onChange func()) *LineCollection {
	return &LineCollection{taxRate: taxRate, priced: priced, onChange: onChange}
}

// Add agrega un detalle al final. Un detalle incompleto se rechaza sin modificar la colección.
func (c *LineCollection) Add(in LineInput) error {
	if err := c.validate(in); err != nil {
		return err
	}
	c.items = append(c.items, c.build(in))
	c.changed()
	return nil
}

// UpdateAt reemplaza el detalle en la posición i.
func (c *LineCollection) UpdateAt(i int, in LineInput) error {
	if i < 0 || i >= len(c.items) {
		return domain.ErrLineIndex
	}
	if err := c.validate(in); err != nil {
		return err
	}
	c.items[i] = c.build(in)
	c.changed()
	return nil
}

// RemoveAt elimina el detalle en la posición i; los siguientes se reindexan.
func (c *LineCollection) RemoveAt(i int) error {
	if i < 0 || i >= len(c.items) {
		return domain.ErrLineIndex
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.changed()
	return nil
}

// ReplaceAll reemplaza todos los detalles (importación). No mezcla con los existentes.
// Acepta detalles con precio cero pendientes de completar; bloquean el envío.
func (c *LineCollection) ReplaceAll(in []LineInput) error {
	items, err := c.buildAll(in)
	if err != nil {
		return err
	}
	c.items = items
	c.changed()
	return nil
}

// Items copia de los detalles en orden.
func (c *LineCollection) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len cantidad de detalles.
func (c *LineCollection) Len() int { return len(c.items) }

// At detalle en la posición i.
func (c *LineCollection) At(i int) (entity.LineItem, error) {
	if i < 0 || i >= len(c.items) {
		return entity.LineItem{}, domain.ErrLineIndex
	}
	return c.items[i], nil
}

// Pending posiciones de los detalles que aún no están completos.
func (c *LineCollection) Pending() []int {
	var out []int
	for i, it := range c.items {
		if !c.complete(it.ProductID, it.Quantity, it.UnitPrice) {
			out = append(out, i)
		}
	}
	return out
}

func (c *LineCollection) buildAll(in []LineInput) ([]entity.LineItem, error) {
	items := make([]entity.LineItem, 0, len(in))
	for i, li := range in {
		if li.ProductID == "" || !li.Quantity.IsPositive() || li.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: detalle %d", domain.ErrIncompleteLine, i+1)
		}
		items = append(items, c.build(li))
	}
	return items, nil
}

func (c *LineCollection) validate(in LineInput) error {
	if !c.complete(in.ProductID, in.Quantity, in.UnitPrice) {
		return domain.ErrIncompleteLine
	}
	return nil
}

func (c *LineCollection) complete(productID string, quantity, unitPrice decimal.Decimal) bool {
	if productID == "" || !quantity.IsPositive() {
		return false
	}
	if c.priced {
		return unitPrice.IsPositive()
	}
	return !unitPrice.IsNegative()
}

func (c *LineCollection) build(in LineInput) entity.LineItem {
	a := pricing.ComputeLine(in.Quantity, in.UnitPrice, in.TaxIncluded, c.taxRate)
	return entity.LineItem{
		ProductID:   in.ProductID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TaxIncluded: in.TaxIncluded,
		Subtotal:    a.Subtotal,
		TaxAmount:   a.TaxAmount,
		Total:       a.Total,
	}
}

func (c *LineCollection) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
