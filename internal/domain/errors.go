package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrInvalidSource = errors.New("tipo de documento origen no permitido")

	// Errores de composición de documentos.
	ErrEmptyDocument          = errors.New("el documento no tiene detalles")
	ErrMissingReference       = errors.New("falta un dato obligatorio de cabecera")
	ErrIncompleteLine         = errors.New("detalle incompleto: producto, cantidad y precio son requeridos")
	ErrLineIndex              = errors.New("índice de detalle fuera de rango")
	ErrInstallmentIndex       = errors.New("índice de cuota fuera de rango")
	ErrOverAllocation         = errors.New("el monto excede el total a pagar")
	ErrInstallmentsRequired   = errors.New("una venta al crédito requiere al menos una cuota")
	ErrReconciliationMismatch = errors.New("los montos no cuadran con el total a pagar")
	ErrPaymentsNotAllowed     = errors.New("el tipo de documento no admite condiciones de pago")
	ErrRetentionNotAllowed    = errors.New("el tipo de documento no admite retención")
	ErrWrongPaymentType       = errors.New("operación no válida para la condición de pago actual")
	ErrSubmitInFlight         = errors.New("el documento ya se está enviando")
	ErrSubmissionRejected     = errors.New("el servicio de persistencia rechazó el documento")
)

// MismatchError detalla una conciliación fallida: total esperado frente al obtenido.
type MismatchError struct {
	Kind     string // "cuotas" o "medios de pago"
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("la suma de %s (%s) no coincide con el total a pagar (%s)", e.Kind, e.Actual, e.Expected)
}

// Unwrap permite errors.Is(err, ErrReconciliationMismatch).
func (e *MismatchError) Unwrap() error { return ErrReconciliationMismatch }

// SubmissionError rechazo del límite de persistencia. Message es el texto del backend
// cuando existe; si no, el mensaje genérico del tipo de documento (Fallback = true).
type SubmissionError struct {
	Message  string
	Fallback bool
	Cause    error
}

func (e *SubmissionError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrSubmissionRejected) y conserva la causa original.
func (e *SubmissionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSubmissionRejected}
	}
	return []error{ErrSubmissionRejected, e.Cause}
}
