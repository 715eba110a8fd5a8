package documents_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks de puertos
// ──────────────────────────────────────────────────────────────────────────────

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Product, error) {
	args := m.Called(ctx, companyID, search, limit, offset)
	list, _ := args.Get(0).([]*entity.Product)
	return list, args.Error(1)
}

type customerRepoMock struct{ mock.Mock }

func (m *customerRepoMock) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Customer)
	return c, args.Error(1)
}

func (m *customerRepoMock) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	args := m.Called(ctx, companyID, limit, offset)
	list, _ := args.Get(0).([]*entity.Customer)
	return list, args.Error(1)
}

type warehouseRepoMock struct{ mock.Mock }

func (m *warehouseRepoMock) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	args := m.Called(ctx, id)
	w, _ := args.Get(0).(*entity.Warehouse)
	return w, args.Error(1)
}

func (m *warehouseRepoMock) ListByCompany(ctx context.Context, companyID string) ([]*entity.Warehouse, error) {
	args := m.Called(ctx, companyID)
	list, _ := args.Get(0).([]*entity.Warehouse)
	return list, args.Error(1)
}

type sourceRepoMock struct{ mock.Mock }

func (m *sourceRepoMock) GetByID(ctx context.Context, st entity.SourceType, id string) (*entity.SourceDocument, error) {
	args := m.Called(ctx, st, id)
	d, _ := args.Get(0).(*entity.SourceDocument)
	return d, args.Error(1)
}

func (m *sourceRepoMock) LinkedPrices(ctx context.Context, linkedID string) (map[string]entity.SourceLine, error) {
	args := m.Called(ctx, linkedID)
	prices, _ := args.Get(0).(map[string]entity.SourceLine)
	return prices, args.Error(1)
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Submit(ctx context.Context, companyID, userID string, payload dto.DocumentPayload) (*entity.PersistedDocument, error) {
	args := m.Called(ctx, companyID, userID, payload)
	p, _ := args.Get(0).(*entity.PersistedDocument)
	return p, args.Error(1)
}

// recordingMetrics guarda las llamadas para verificarlas.
type recordingMetrics struct {
	mu        sync.Mutex
	submitted []string
	rejected  []string
	mutations []string
}

func (r *recordingMetrics) DocumentSubmitted(_ entity.DocumentType, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, result)
}

func (r *recordingMetrics) ValidationRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

func (r *recordingMetrics) DraftMutated(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, op)
}

// ──────────────────────────────────────────────────────────────────────────────
// Datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "1"
	userID    = "7"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type fixture struct {
	uc         *documents.DraftUseCase
	store      *documents.MemoryDraftStore
	products   *productRepoMock
	customers  *customerRepoMock
	warehouses *warehouseRepoMock
	sources    *sourceRepoMock
	metrics    *recordingMetrics
}

// newFixture arma el caso de uso con catálogo fijo:
// cliente 10 (categoría MAYORISTA), almacén 1, producto 100 de la empresa 1 y producto 200 de otra empresa.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      documents.NewMemoryDraftStore(),
		products:   &productRepoMock{},
		customers:  &customerRepoMock{},
		warehouses: &warehouseRepoMock{},
		sources:    &sourceRepoMock{},
		metrics:    &recordingMetrics{},
	}
	f.customers.On("GetByID", mock.Anything, "10").Return(&entity.Customer{ID: "10", CompanyID: companyID, PriceCategory: "MAYORISTA"}, nil).Maybe()
	f.customers.On("GetByID", mock.Anything, "11").Return(&entity.Customer{ID: "11", CompanyID: companyID}, nil).Maybe()
	f.warehouses.On("GetByID", mock.Anything, "1").Return(&entity.Warehouse{ID: "1", CompanyID: companyID}, nil).Maybe()
	f.products.On("GetByID", mock.Anything, "100").Return(&entity.Product{
		ID: "100", CompanyID: companyID, Name: "Cemento 42.5kg",
		Prices: []entity.ProductPrice{
			{Category: "MAYORISTA", Currency: "PEN", Price: d("10"), TaxIncluded: false},
			{Category: "", Currency: "PEN", Price: d("11.80"), TaxIncluded: true},
		},
	}, nil).Maybe()
	f.products.On("GetByID", mock.Anything, "200").Return(&entity.Product{ID: "200", CompanyID: "2"}, nil).Maybe()
	f.products.On("GetByID", mock.Anything, "404").Return(nil, nil).Maybe()

	f.uc = documents.NewDraftUseCase(f.store, f.products, f.customers, f.warehouses,
		documents.NewImporter(f.sources), document.DefaultPolicy(), f.metrics)
	return f
}
