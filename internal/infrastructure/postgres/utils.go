package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gestion-comercial/internal/domain"
)

// rejection traduce errores de integridad a un rechazo con mensaje para el usuario.
// Errores de conexión u otros se devuelven tal cual (el caso de uso aplica el mensaje genérico).
func rejection(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var msg string
	switch pgErr.Code {
	case "23505": // unique_violation
		msg = "ya existe un documento registrado con esos datos"
	case "23503": // foreign_key_violation
		msg = "el documento referencia un registro inexistente"
		if pgErr.ConstraintName != "" {
			msg += " (" + pgErr.ConstraintName + ")"
		}
	case "23514", "P0001": // check_violation, raise_exception
		msg = pgErr.Message
	default:
		return err
	}
	return &domain.SubmissionError{Message: msg, Cause: err}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
