package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-comercial/internal/domain/pricing"
)

var igv = decimal.RequireFromString("0.18")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: se esperaba %s, se obtuvo %s", field, want, got)
}

// Ejemplo: 2 x 11.80 con IGV incluido => total 23.60, subtotal 20.00, IGV 3.60.
func TestComputeLine_ConIGVIncluido(t *testing.T) {
	got := pricing.ComputeLine(d("2"), d("11.80"), true, igv)
	assertDecimal(t, "23.60", got.Total, "total")
	assertDecimal(t, "20.00", got.Subtotal, "subtotal")
	assertDecimal(t, "3.60", got.TaxAmount, "igv")
}

// Ejemplo: 3 x 10.00 sin IGV => subtotal 30.00, IGV 5.40, total 35.40.
func TestComputeLine_SinIGVIncluido(t *testing.T) {
	got := pricing.ComputeLine(d("3"), d("10.00"), false, igv)
	assertDecimal(t, "30.00", got.Subtotal, "subtotal")
	assertDecimal(t, "5.40", got.TaxAmount, "igv")
	assertDecimal(t, "35.40", got.Total, "total")
}

func TestComputeLine_BorradorIncompleto(t *testing.T) {
	tests := []struct {
		name     string
		quantity decimal.Decimal
		price    decimal.Decimal
	}{
		{"cantidad cero", decimal.Zero, d("10")},
		{"precio cero", d("2"), decimal.Zero},
		{"cantidad negativa", d("-1"), d("10")},
		{"precio negativo", d("1"), d("-10")},
		{"ambos sin definir", decimal.Decimal{}, decimal.Decimal{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.ComputeLine(tt.quantity, tt.price, true, igv)
			assert.True(t, got.IsZero(), "un detalle incompleto debe devolver ceros")
		})
	}
}

// Propiedad: total = subtotal + igv en ambos modos, y con IGV incluido
// subtotal * (1 + tasa) recupera el total dentro de 1e-6.
func TestComputeLine_IdaYVuelta(t *testing.T) {
	epsilon := d("0.000001")
	quantities := []string{"1", "2", "3", "7", "0.5", "12.345", "100", "999.999"}
	prices := []string{"0.01", "0.99", "1", "3.33", "11.80", "19.99", "123.456789", "10000"}
	for _, q := range quantities {
		for _, p := range prices {
			inc := pricing.ComputeLine(d(q), d(p), true, igv)
			back := inc.Subtotal.Mul(decimal.NewFromInt(1).Add(igv))
			assert.True(t, back.Sub(inc.Total).Abs().LessThanOrEqual(epsilon),
				"q=%s p=%s: subtotal*(1+tasa)=%s total=%s", q, p, back, inc.Total)
			assert.True(t, inc.Total.Equal(inc.Subtotal.Add(inc.TaxAmount)), "q=%s p=%s", q, p)

			exc := pricing.ComputeLine(d(q), d(p), false, igv)
			assert.True(t, exc.Total.Equal(exc.Subtotal.Add(exc.TaxAmount)), "q=%s p=%s", q, p)
			assert.True(t, exc.Subtotal.Equal(d(q).Mul(d(p)).Round(6)), "q=%s p=%s", q, p)
		}
	}
}

func TestExclusiveUnitValue(t *testing.T) {
	assertDecimal(t, "10", pricing.ExclusiveUnitValue(d("11.80"), true, igv), "con IGV")
	assertDecimal(t, "11.80", pricing.ExclusiveUnitValue(d("11.80"), false, igv), "sin IGV")
}

// El IGV mostrado se trunca: nunca se muestra más impuesto del contenido en el precio.
func TestTaxBreakdown_TruncaElImpuesto(t *testing.T) {
	got := pricing.TaxBreakdown(d("10.00"), igv)
	assertDecimal(t, "1.52", got.Tax, "igv") // 1.525424 -> 1.52
	assertDecimal(t, "8.48", got.Base, "base")

	exact := pricing.TaxBreakdown(d("23.60"), igv)
	assertDecimal(t, "3.60", exact.Tax, "igv")
	assertDecimal(t, "20.00", exact.Base, "base")

	zero := pricing.TaxBreakdown(decimal.Zero, igv)
	assert.True(t, zero.Tax.IsZero())
}
