package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo de una venta al contado
// ──────────────────────────────────────────────────────────────────────────────

func TestDraftHandler_VentaContado_FlujoCompleto(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	status, body := env.do(t, http.MethodPost, "/api/drafts/"+id+"/lines", map[string]any{
		"product_id": "100", "quantity": 10, "unit_price": 30, "is_igv": false,
	})
	require.Equal(t, http.StatusOK, status, body)
	tot := totals(body)
	assert.Equal(t, "300.00", tot["subtotal"])
	assert.Equal(t, "54.00", tot["tax_amount"])
	assert.Equal(t, "354.00", tot["net_payable"])
	assert.Equal(t, true, body["can_submit"], "sin montos se asume contado por el total")

	status, body = env.do(t, http.MethodPut, "/api/drafts/"+id+"/payment-methods", map[string]any{
		"amounts": map[string]any{"cash": 300, "card": 54},
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["can_submit"])

	env.gateway.On("Submit", mock.Anything, testCompanyID, testUserID, mock.Anything).
		Return(&entity.PersistedDocument{ID: "900", Type: entity.DocumentTypeSale, Number: "VTA-000001"}, nil).Once()

	status, body = env.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "900", body["id"])
	assert.Equal(t, "VTA-000001", body["number"])
	env.gateway.AssertExpectations(t)

	// el borrador enviado se descarta
	status, _ = env.do(t, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDraftHandler_PrecioDelCatalogo(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	// sin unit_price se toma 35.40 con IGV del catálogo
	status, body := env.do(t, http.MethodPost, "/api/drafts/"+id+"/lines", map[string]any{
		"product_id": "100", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, status, body)
	tot := totals(body)
	assert.Equal(t, "30.00", tot["subtotal"])
	assert.Equal(t, "35.40", tot["total"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de entrada y de conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestDraftHandler_Create_TipoInvalido(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/drafts", map[string]any{"document_type": "FOO"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	fields, _ := body["fields"].(map[string]any)
	assert.Equal(t, "oneof", fields["document_type"])
}

func TestDraftHandler_Create_CuerpoInvalido(t *testing.T) {
	env := newTestEnv(t)

	resp := env.rawBody(t, http.MethodPost, "/api/drafts", "{no-json")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraftHandler_MediosDePago_Excedidos(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)
	status, _ := env.do(t, http.MethodPost, "/api/drafts/"+id+"/lines", map[string]any{
		"product_id": "100", "quantity": 1, "unit_price": 100, "is_igv": true,
	})
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodPut, "/api/drafts/"+id+"/payment-methods", map[string]any{
		"amounts": map[string]any{"cash": 150},
	})

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "OVER_ALLOCATION", body["code"])
}

func TestDraftHandler_Submit_NoCuadra(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)
	status, _ := env.do(t, http.MethodPost, "/api/drafts/"+id+"/lines", map[string]any{
		"product_id": "100", "quantity": 1, "unit_price": 100, "is_igv": true,
	})
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodPut, "/api/drafts/"+id+"/payment-methods", map[string]any{
		"amounts": map[string]any{"cash": 50},
	})
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "RECONCILIATION_MISMATCH", body["code"])
	env.gateway.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftHandler_Submit_Vacio(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	status, body := env.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_DOCUMENT", body["code"])
}

func TestDraftHandler_Submit_RechazoDelBackend(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)
	env.do(t, http.MethodPost, "/api/drafts/"+id+"/lines", map[string]any{
		"product_id": "100", "quantity": 1, "unit_price": 118, "is_igv": true,
	})
	env.do(t, http.MethodPut, "/api/drafts/"+id+"/payment-methods", map[string]any{
		"amounts": map[string]any{"wallet": 118},
	})
	env.gateway.On("Submit", mock.Anything, testCompanyID, testUserID, mock.Anything).
		Return(nil, &domain.SubmissionError{Message: "Stock insuficiente para CEM-01"}).Once()

	status, body := env.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil)

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "SUBMISSION_REJECTED", body["code"])
	assert.Equal(t, "Stock insuficiente para CEM-01", body["message"])

	// el borrador sigue abierto para corregirlo
	status, _ = env.do(t, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestDraftHandler_IndiceNoNumerico(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	status, body := env.do(t, http.MethodDelete, "/api/drafts/"+id+"/lines/abc", nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INDEX", body["code"])
}

func TestDraftHandler_IndiceFueraDeRango(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	status, body := env.do(t, http.MethodDelete, "/api/drafts/"+id+"/lines/3", nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INDEX", body["code"])
}

func TestDraftHandler_BorradorInexistente(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/drafts/no-existe", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestDraftHandler_OtraEmpresa(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	status, _ := env.doAs(t, tokenFor(t, "2"), http.MethodGet, "/api/drafts/"+id, nil)

	assert.Equal(t, http.StatusForbidden, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Crédito, importación y exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestDraftHandler_CreditoConCuotas(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)
	env.do(t, http.MethodPost, "/api/drafts/"+id+"/lines", map[string]any{
		"product_id": "100", "quantity": 1, "unit_price": 200, "is_igv": true,
	})

	// al pasar a crédito se genera una cuota única por el neto a 30 días
	status, body := env.do(t, http.MethodPut, "/api/drafts/"+id+"/payment-type", map[string]any{"payment_type": "CREDITO"})
	require.Equal(t, http.StatusOK, status, body)
	require.Len(t, body["installments"], 1)
	assert.Equal(t, true, body["can_submit"])

	status, body = env.do(t, http.MethodPut, "/api/drafts/"+id+"/installments/0", map[string]any{"due_days": 30, "amount": 100})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, false, body["can_submit"], "las cuotas ya no cuadran con el neto")

	status, body = env.do(t, http.MethodPost, "/api/drafts/"+id+"/installments", map[string]any{"due_days": 60, "amount": 100})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["can_submit"])
	assert.Len(t, body["installments"], 2)

	status, body = env.do(t, http.MethodPost, "/api/drafts/"+id+"/installments", map[string]any{"due_days": 90, "amount": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "OVER_ALLOCATION", body["code"])
}

func TestDraftHandler_Importar(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, http.MethodPost, "/api/drafts", map[string]any{"document_type": "SALE"})
	require.Equal(t, http.StatusCreated, status, body)
	id := body["id"].(string)

	status, body = env.do(t, http.MethodPost, "/api/drafts/"+id+"/import", map[string]any{"source_type": "QUOTATION", "source_id": "55"})

	require.Equal(t, http.StatusOK, status, body)
	header, _ := body["header"].(map[string]any)
	assert.Equal(t, "10", header["customer_id"])
	assert.Len(t, body["lines"], 1)
}

func TestDraftHandler_ExportarXML(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	resp := env.raw(t, env.token, http.MethodGet, "/api/drafts/"+id+"/xml", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sha-256=ZGlnZXN0", resp.Header.Get("X-Content-Digest"))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xml")
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<Invoice/>", string(raw))
}

func TestDraftHandler_ExportarPDF(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	resp := env.raw(t, env.token, http.MethodGet, "/api/drafts/"+id+"/pdf", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
}

func TestDraftHandler_Eliminar(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSale(t)

	status, _ := env.do(t, http.MethodDelete, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(t, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
