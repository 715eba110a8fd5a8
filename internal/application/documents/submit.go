package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

// SubmitUseCase envía un borrador al límite de persistencia.
// Toda la validación es local y previa a la llamada; solo el rechazo del backend cruza el límite.
type SubmitUseCase struct {
	drafts  DraftStore
	guard   SubmitGuard
	gateway Gateway
	policy  document.Policy
	metrics Metrics
	log     *logger.Logger
}

// NewSubmitUseCase construye el caso de uso. metrics puede ser nil.
func NewSubmitUseCase(drafts DraftStore, guard SubmitGuard, gateway Gateway, policy document.Policy, metrics Metrics, log *logger.Logger) *SubmitUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &SubmitUseCase{
		drafts:  drafts,
		guard:   guard,
		gateway: gateway,
		policy:  policy,
		metrics: metrics,
		log:     log,
	}
}

// Submit valida y envía el borrador. Mientras el envío está en curso un segundo intento
// devuelve domain.ErrSubmitInFlight. Al terminar (éxito o error) la marca se limpia;
// no hay reintento automático. Con éxito el borrador se descarta.
func (uc *SubmitUseCase) Submit(ctx context.Context, companyID, userID, draftID string) (*dto.SubmitResponse, error) {
	sd, err := uc.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if sd.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	doc, err := document.Restore(sd.Snapshot, uc.policy)
	if err != nil {
		return nil, fmt.Errorf("restaurar borrador %s: %w", draftID, err)
	}

	acquired, err := uc.guard.Acquire(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("marcar envío: %w", err)
	}
	if !acquired {
		uc.metrics.DocumentSubmitted(doc.Type(), ResultInFlight)
		uc.log.Warn().Str("draft_id", draftID).Msg("envío duplicado rechazado")
		return nil, domain.ErrSubmitInFlight
	}
	defer func() {
		if err := uc.guard.Release(context.WithoutCancel(ctx), draftID); err != nil {
			uc.log.Error().Err(err).Str("draft_id", draftID).Msg("no se pudo liberar la marca de envío")
		}
	}()

	if issues := doc.Issues(); len(issues) > 0 {
		for _, e := range issues {
			uc.metrics.ValidationRejected(RejectionReason(e))
		}
		uc.metrics.DocumentSubmitted(doc.Type(), ResultInvalid)
		return nil, errors.Join(issues...)
	}

	payload, err := BuildPayload(doc)
	if err != nil {
		uc.metrics.ValidationRejected(RejectionReason(err))
		uc.metrics.DocumentSubmitted(doc.Type(), ResultInvalid)
		return nil, err
	}

	persisted, err := uc.gateway.Submit(ctx, companyID, userID, payload)
	if err != nil {
		serr := submissionError(err, doc.Profile())
		uc.metrics.DocumentSubmitted(doc.Type(), ResultRejected)
		uc.log.Error().Err(err).
			Str("draft_id", draftID).
			Str("document_type", string(doc.Type())).
			Bool("fallback", serr.Fallback).
			Msg("documento rechazado por el servicio de persistencia")
		return nil, serr
	}

	if err := uc.drafts.Delete(ctx, draftID); err != nil {
		uc.log.Warn().Err(err).Str("draft_id", draftID).Msg("no se pudo descartar el borrador enviado")
	}
	uc.metrics.DocumentSubmitted(doc.Type(), ResultSuccess)
	uc.log.Info().
		Str("draft_id", draftID).
		Str("document_id", persisted.ID).
		Str("document_type", string(doc.Type())).
		Float64("net_payable", payload.NetPayable).
		Msg("documento registrado")

	return &dto.SubmitResponse{
		ID:           persisted.ID,
		DocumentType: string(persisted.Type),
		Number:       persisted.Number,
		CreatedAt:    persisted.CreatedAt,
	}, nil
}

// submissionError conserva el mensaje del backend; si no hay, usa el genérico del tipo de documento.
func submissionError(err error, p document.Profile) *domain.SubmissionError {
	var se *domain.SubmissionError
	if errors.As(err, &se) && strings.TrimSpace(se.Message) != "" {
		return se
	}
	return &domain.SubmissionError{Message: p.FallbackMessage(), Fallback: true, Cause: err}
}

// RejectionReason etiqueta corta de un error de validación (métricas).
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyDocument):
		return "empty_document"
	case errors.Is(err, domain.ErrMissingReference):
		return "missing_reference"
	case errors.Is(err, domain.ErrIncompleteLine):
		return "incomplete_line"
	case errors.Is(err, domain.ErrInstallmentsRequired):
		return "installments_required"
	case errors.Is(err, domain.ErrReconciliationMismatch):
		return "reconciliation_mismatch"
	default:
		return "invalid_input"
	}
}
