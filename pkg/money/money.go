// Package money concentra el redondeo monetario del motor de documentos.
// Todos los cálculos internos se hacen con 6 decimales; los 2 decimales
// se aplican solo al comparar contra la tolerancia o al presentar valores.
package money

import "github.com/shopspring/decimal"

// Precisiones usadas por todo el motor.
const (
	InternalPlaces int32 = 6 // sumas y derivados internos
	DisplayPlaces  int32 = 2 // presentación y comparación con tolerancia
)

// Tolerance diferencia máxima (exclusiva) aceptada al conciliar cuotas o medios de pago.
var Tolerance = decimal.New(1, -2)

// Round redondea value a places decimales (mitad hacia arriba, lejos de cero).
func Round(value decimal.Decimal, places int32) decimal.Decimal {
	return value.Round(places)
}

// Truncate descarta los dígitos posteriores a places sin redondear.
func Truncate(value decimal.Decimal, places int32) decimal.Decimal {
	return value.Truncate(places)
}

// Internal redondea a la precisión interna (6 decimales).
func Internal(value decimal.Decimal) decimal.Decimal {
	return value.Round(InternalPlaces)
}

// WithinTolerance indica si |a - b| < 0.01.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// Display devuelve el valor con 2 decimales fijos ("23.60"). Solo para la capa de presentación.
func Display(value decimal.Decimal) string {
	return value.StringFixed(DisplayPlaces)
}

// Sum suma los valores y redondea el resultado a la precisión interna.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Internal(total)
}
