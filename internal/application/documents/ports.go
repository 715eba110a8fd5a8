package documents

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// Gateway límite de persistencia. Recibe el documento normalizado y devuelve el recurso creado.
// Un rechazo con mensaje para el usuario se devuelve como *domain.SubmissionError.
type Gateway interface {
	Submit(ctx context.Context, companyID, userID string, payload dto.DocumentPayload) (*entity.PersistedDocument, error)
}

// StoredDraft borrador guardado: dueño y entradas del documento (sin montos derivados).
type StoredDraft struct {
	ID        string            `json:"id"`
	CompanyID string            `json:"company_id"`
	UserID    string            `json:"user_id"`
	Snapshot  document.Snapshot `json:"snapshot"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DraftStore guarda los borradores abiertos. Cada borrador es una instancia de formulario.
type DraftStore interface {
	Save(ctx context.Context, d *StoredDraft) error
	// Get devuelve domain.ErrNotFound si el borrador no existe o expiró.
	Get(ctx context.Context, id string) (*StoredDraft, error)
	Delete(ctx context.Context, id string) error
}

// SubmitGuard marca de envío en curso por borrador (evita el doble envío).
type SubmitGuard interface {
	// Acquire devuelve false si ya hay un envío en curso para el borrador.
	Acquire(ctx context.Context, draftID string) (bool, error)
	Release(ctx context.Context, draftID string) error
}

// Metrics contadores del motor de documentos.
type Metrics interface {
	DocumentSubmitted(docType entity.DocumentType, result string)
	ValidationRejected(reason string)
	DraftMutated(operation string)
}

// Resultados de envío para Metrics.DocumentSubmitted.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultInFlight = "in_flight"
)

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) DocumentSubmitted(entity.DocumentType, string) {}
func (NopMetrics) ValidationRejected(string)                     {}
func (NopMetrics) DraftMutated(string)                           {}
