package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial/internal/domain/document"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
	apphttp "github.com/jhoicas/gestion-comercial/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/gestion-comercial/pkg/jwt"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de datos de referencia
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "gestion-comercial-test"
	testCompanyID = "1"
	testUserID    = "7"
)

type productRepo map[string]*entity.Product

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r[id], nil
}

func (r productRepo) ListByCompany(_ context.Context, companyID, _ string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

type customerRepo map[string]*entity.Customer

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r[id], nil
}

func (r customerRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type warehouseRepo map[string]*entity.Warehouse

func (r warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r[id], nil
}

func (r warehouseRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}

type sourceRepo map[string]*entity.SourceDocument

func (r sourceRepo) GetByID(_ context.Context, _ entity.SourceType, id string) (*entity.SourceDocument, error) {
	return r[id], nil
}

func (r sourceRepo) LinkedPrices(context.Context, string) (map[string]entity.SourceLine, error) {
	return map[string]entity.SourceLine{}, nil
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Submit(ctx context.Context, companyID, userID string, payload dto.DocumentPayload) (*entity.PersistedDocument, error) {
	args := m.Called(ctx, companyID, userID, payload)
	p, _ := args.Get(0).(*entity.PersistedDocument)
	return p, args.Error(1)
}

type fakePDF struct{}

func (fakePDF) RenderPDF(context.Context, documents.Preview) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type fakeXML struct{}

func (fakeXML) RenderXML(context.Context, documents.Preview) ([]byte, string, error) {
	return []byte("<Invoice/>"), "ZGlnZXN0", nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación de prueba
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app     *fiber.App
	gateway *gatewayMock
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	products := productRepo{
		"100": {ID: "100", CompanyID: testCompanyID, SKU: "CEM-01", Name: "Cemento", Prices: []entity.ProductPrice{
			{Category: "", Currency: "PEN", Price: decimal.RequireFromString("35.40"), TaxIncluded: true},
		}},
		"200": {ID: "200", CompanyID: "2", Name: "Ajeno"},
	}
	customers := customerRepo{"10": {ID: "10", CompanyID: testCompanyID, Name: "Ferretería Lima", TaxID: "20100070970"}}
	warehouses := warehouseRepo{"1": {ID: "1", CompanyID: testCompanyID, Name: "Principal"}}
	sources := sourceRepo{"55": {
		ID: "55", CompanyID: testCompanyID, Type: entity.SourceTypeQuotation, CustomerID: "10", WarehouseID: "1", Currency: "PEN",
		Details: []entity.SourceLine{{ProductID: "100", Description: "Cemento", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)}},
	}}

	log := logger.Nop()
	policy := document.DefaultPolicy()
	store := documents.NewMemoryDraftStore()
	gw := &gatewayMock{}

	draftsUC := documents.NewDraftUseCase(store, products, customers, warehouses, documents.NewImporter(sources), policy, nil)
	submitUC := documents.NewSubmitUseCase(store, documents.NewMemorySubmitGuard(), gw, policy, nil, log)
	exportUC := documents.NewExportUseCase(draftsUC, customers, warehouses, fakePDF{}, fakeXML{})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Drafts:     draftsUC,
		Submit:     submitUC,
		Export:     exportUC,
		ProductUC:  usecase.NewProductUseCase(products),
		Warehouses: usecase.NewWarehouseUseCase(warehouses),
		Customers:  usecase.NewCustomerUseCase(customers),
		Log:        log,
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
	})

	return &testEnv{app: app, gateway: gw, token: tokenFor(t, testCompanyID)}
}

func tokenFor(t *testing.T, companyID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: testUserID, CompanyID: companyID, Role: "vendedor"}, testIssuer, time.Hour)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// do lanza la petición con el token del entorno y decodifica el JSON de respuesta.
func (e *testEnv) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	return e.doAs(t, e.token, method, path, body)
}

func (e *testEnv) doAs(t *testing.T, auth, method, path string, body any) (int, map[string]any) {
	t.Helper()
	resp := e.raw(t, auth, method, path, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (e *testEnv) raw(t *testing.T, auth, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// newSale abre una venta con cliente y almacén y devuelve su ID.
func (e *testEnv) newSale(t *testing.T) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/drafts", map[string]any{"document_type": "SALE"})
	require.Equal(t, http.StatusCreated, status, body)
	id := body["id"].(string)
	status, body = e.do(t, http.MethodPut, "/api/drafts/"+id+"/header", map[string]any{"customer_id": "10", "warehouse_id": "1"})
	require.Equal(t, http.StatusOK, status, body)
	return id
}

func totals(body map[string]any) map[string]any {
	t, _ := body["totals"].(map[string]any)
	return t
}

func (e *testEnv) rawBody(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, e.token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
