// Package metrics contadores Prometheus del motor de documentos comerciales.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// DocumentMetrics implementa documents.Metrics sobre un registro Prometheus.
type DocumentMetrics struct {
	submitted  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	mutations  *prometheus.CounterVec
}

var _ documents.Metrics = (*DocumentMetrics)(nil)

// New registra los contadores en registerer (DefaultRegisterer si es nil).
func New(registerer prometheus.Registerer, appName string) *DocumentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if appName == "" {
		appName = "gestion-comercial"
	}
	constLabels := prometheus.Labels{"service": appName}

	m := &DocumentMetrics{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "documents_submitted_total",
			Help:        "Envíos de documentos al servicio de persistencia por tipo y resultado.",
			ConstLabels: constLabels,
		}, []string{"document_type", "result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "document_validation_rejections_total",
			Help:        "Envíos bloqueados por validación local o rechazados por el backend.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "draft_mutations_total",
			Help:        "Cambios aplicados a borradores por operación.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
	}
	registerer.MustRegister(m.submitted, m.rejections, m.mutations)
	return m
}

func (m *DocumentMetrics) DocumentSubmitted(docType entity.DocumentType, result string) {
	m.submitted.WithLabelValues(string(docType), result).Inc()
}

func (m *DocumentMetrics) ValidationRejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *DocumentMetrics) DraftMutated(operation string) {
	m.mutations.WithLabelValues(operation).Inc()
}
