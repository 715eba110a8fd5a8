package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

// errorMapping estado HTTP y código por error de dominio, en orden de prioridad.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrSubmitInFlight, fiber.StatusConflict, "SUBMIT_IN_FLIGHT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrOverAllocation, fiber.StatusConflict, "OVER_ALLOCATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrReconciliationMismatch, fiber.StatusUnprocessableEntity, "RECONCILIATION_MISMATCH"},
	{domain.ErrIncompleteLine, fiber.StatusBadRequest, "INCOMPLETE_LINE"},
	{domain.ErrEmptyDocument, fiber.StatusBadRequest, "EMPTY_DOCUMENT"},
	{domain.ErrMissingReference, fiber.StatusBadRequest, "MISSING_REFERENCE"},
	{domain.ErrInstallmentsRequired, fiber.StatusBadRequest, "INSTALLMENTS_REQUIRED"},
	{domain.ErrLineIndex, fiber.StatusBadRequest, "INVALID_INDEX"},
	{domain.ErrInstallmentIndex, fiber.StatusBadRequest, "INVALID_INDEX"},
	{domain.ErrInvalidSource, fiber.StatusBadRequest, "INVALID_SOURCE"},
	{domain.ErrPaymentsNotAllowed, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrRetentionNotAllowed, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrWrongPaymentType, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// respondError traduce err a dto.ErrorResponse. Los errores sin mapeo se registran y
// se devuelven como 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var se *domain.SubmissionError
	if errors.As(err, &se) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SUBMISSION_REJECTED", Message: se.Message})
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{
				Code:    m.code,
				Message: err.Error(),
				Details: details(err),
			})
		}
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente nuevamente"})
}

// details separa un error compuesto (errors.Join) en sus mensajes.
func details(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	errs := joined.Unwrap()
	if len(errs) < 2 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return respondError(c, log, err)
	}
}
