package document_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
)

var igv = decimal.RequireFromString("0.18")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(product, q, p string, included bool) document.LineInput {
	return document.LineInput{ProductID: product, Quantity: d(q), UnitPrice: d(p), TaxIncluded: included}
}

func TestLineCollection_AddCalculaMontos(t *testing.T) {
	calls := 0
	c := document.NewLineCollection(igv, true, func() { calls++ })

	require.NoError(t, c.Add(line("1", "2", "11.80", true)))
	require.NoError(t, c.Add(line("2", "3", "10", false)))

	require.Equal(t, 2, c.Len())
	first, err := c.At(0)
	require.NoError(t, err)
	assert.True(t, d("20").Equal(first.Subtotal))
	assert.True(t, d("3.6").Equal(first.TaxAmount))
	second, _ := c.At(1)
	assert.True(t, d("35.4").Equal(second.Total))
	assert.Equal(t, 2, calls, "cada mutación debe avisar al dueño")
}

// Un detalle incompleto nunca entra a la colección.
func TestLineCollection_RechazaIncompletos(t *testing.T) {
	c := document.NewLineCollection(igv, true, nil)
	cases := []document.LineInput{
		line("", "1", "10", false),
		line("1", "0", "10", false),
		line("1", "1", "0", false),
		{ProductID: "1"},
	}
	for _, in := range cases {
		assert.ErrorIs(t, c.Add(in), domain.ErrIncompleteLine)
	}
	assert.Equal(t, 0, c.Len())
}

func TestLineCollection_SinPrecioEnDocumentosNoValorizados(t *testing.T) {
	c := document.NewLineCollection(igv, false, nil)
	require.NoError(t, c.Add(document.LineInput{ProductID: "1", Quantity: d("5")}))
	it, _ := c.At(0)
	assert.True(t, it.Total.IsZero())
	assert.Empty(t, c.Pending())
}

func TestLineCollection_UpdateAtRecalcula(t *testing.T) {
	c := document.NewLineCollection(igv, true, nil)
	require.NoError(t, c.Add(line("1", "1", "10", false)))

	require.NoError(t, c.UpdateAt(0, line("1", "2", "10", false)))
	it, _ := c.At(0)
	assert.True(t, d("23.6").Equal(it.Total))

	// cambiar solo la bandera de IGV vuelve a derivar los montos
	require.NoError(t, c.UpdateAt(0, line("1", "2", "10", true)))
	it, _ = c.At(0)
	assert.True(t, d("20").Equal(it.Total))

	assert.ErrorIs(t, c.UpdateAt(0, line("1", "0", "10", true)), domain.ErrIncompleteLine)
	assert.ErrorIs(t, c.UpdateAt(3, line("1", "1", "10", true)), domain.ErrLineIndex)
	it, _ = c.At(0)
	assert.True(t, d("20").Equal(it.Total), "un update rechazado no modifica el detalle")
}

func TestLineCollection_RemoveAtReindexa(t *testing.T) {
	c := document.NewLineCollection(igv, true, nil)
	require.NoError(t, c.Add(line("A", "1", "1", false)))
	require.NoError(t, c.Add(line("B", "1", "1", false)))
	require.NoError(t, c.Add(line("C", "1", "1", false)))

	require.NoError(t, c.RemoveAt(1))
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ProductID)
	assert.Equal(t, "C", items[1].ProductID)

	assert.ErrorIs(t, c.RemoveAt(2), domain.ErrLineIndex)
	assert.ErrorIs(t, c.RemoveAt(-1), domain.ErrLineIndex)
}

func TestLineCollection_ReplaceAllNoMezcla(t *testing.T) {
	c := document.NewLineCollection(igv, true, nil)
	require.NoError(t, c.Add(line("A", "1", "1", false)))

	require.NoError(t, c.ReplaceAll([]document.LineInput{
		line("X", "2", "5", false),
		line("Y", "1", "0", false), // pendiente de precio
	}))
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "X", items[0].ProductID)
	assert.Equal(t, []int{1}, c.Pending())

	err := c.ReplaceAll([]document.LineInput{line("Z", "0", "1", false)})
	assert.ErrorIs(t, err, domain.ErrIncompleteLine)
	assert.Len(t, c.Items(), 2, "un reemplazo inválido deja la colección intacta")
}
