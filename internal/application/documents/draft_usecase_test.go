package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/domain"
	"github.com/jhoicas/gestion-comercial/internal/domain/entity"
)

func newSaleDraft(t *testing.T, f *fixture) *dto.DraftResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateDraftRequest{DocumentType: "SALE"})
	require.NoError(t, err)
	return resp
}

func TestDraftUseCase_CrearYObtener(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "SALE", created.DocumentType)
	assert.Equal(t, "CONTADO", created.PaymentType)
	assert.Equal(t, documents.DefaultCurrency, created.Header.Currency)
	assert.Equal(t, time.Now().Format("2006-01-02"), created.Header.IssueDate)
	assert.False(t, created.CanSubmit, "un borrador vacío no puede enviarse")
	assert.NotEmpty(t, created.Issues)
	assert.Equal(t, "0.00", created.Totals.NetPayable)

	got, err := f.uc.Get(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{documents.OpCreate}, f.metrics.mutations)
}

func TestDraftUseCase_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateDraftRequest{DocumentType: "BOLETA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un borrador de otra empresa no se puede leer ni modificar.
func TestDraftUseCase_OtraEmpresa(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)

	_, err := f.uc.Get(context.Background(), "2", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.RemoveLine(context.Background(), "2", created.ID, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDraftUseCase_Cancelar(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)

	require.NoError(t, f.uc.Delete(context.Background(), companyID, created.ID))
	_, err := f.uc.Get(context.Background(), companyID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraftUseCase_CabeceraToma_CategoriaDelCliente(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)

	resp, err := f.uc.SetHeader(context.Background(), companyID, created.ID, dto.HeaderRequest{
		CustomerID: "10", WarehouseID: "1", IssueDate: "2026-03-15", Observations: "entrega en obra",
	})
	require.NoError(t, err)
	assert.Equal(t, "MAYORISTA", resp.Header.PriceCategory)
	assert.Equal(t, "2026-03-15", resp.Header.IssueDate)
	assert.Equal(t, "PEN", resp.Header.Currency)

	_, err = f.uc.SetHeader(context.Background(), companyID, created.ID, dto.HeaderRequest{IssueDate: "15/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDraftUseCase_CabeceraReferenciaInexistente(t *testing.T) {
	f := newFixture(t)
	f.customers.On("GetByID", mock.Anything, "99").Return(nil, nil)
	created := newSaleDraft(t, f)

	_, err := f.uc.SetHeader(context.Background(), companyID, created.ID, dto.HeaderRequest{CustomerID: "99"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Sin precio explícito se usa el precio del producto para la categoría del cliente.
func TestDraftUseCase_PrecioPorDefectoSegunCategoria(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)
	_, err := f.uc.SetHeader(context.Background(), companyID, created.ID, dto.HeaderRequest{CustomerID: "10", WarehouseID: "1"})
	require.NoError(t, err)

	resp, err := f.uc.AddLine(context.Background(), companyID, created.ID, dto.LineRequest{ProductID: "100", Quantity: d("3")})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	line := resp.Lines[0]
	assert.Equal(t, "10.00", line.UnitPrice)
	assert.False(t, line.IsIGV)
	assert.Equal(t, "Cemento 42.5kg", line.Description)
	assert.Equal(t, "35.40", line.Total)
	assert.Equal(t, "35.40", resp.Totals.Total)
}

// Cliente sin categoría: se usa el precio general (con IGV).
func TestDraftUseCase_PrecioGeneral(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)
	_, err := f.uc.SetHeader(context.Background(), companyID, created.ID, dto.HeaderRequest{CustomerID: "11", WarehouseID: "1"})
	require.NoError(t, err)

	resp, err := f.uc.AddLine(context.Background(), companyID, created.ID, dto.LineRequest{ProductID: "100", Quantity: d("2")})
	require.NoError(t, err)
	assert.Equal(t, "20.00", resp.Totals.Subtotal)
	assert.Equal(t, "3.60", resp.Totals.TaxAmount)
	assert.Equal(t, "23.60", resp.Totals.Total)

	// precio explícito tiene prioridad
	resp, err = f.uc.UpdateLine(context.Background(), companyID, created.ID, 0, dto.LineRequest{
		ProductID: "100", Quantity: d("2"), UnitPrice: ptr(d("5")), IsIGV: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "11.80", resp.Totals.Total)
}

func TestDraftUseCase_ProductoAjenoOInexistente(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)

	_, err := f.uc.AddLine(context.Background(), companyID, created.ID, dto.LineRequest{ProductID: "200", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.AddLine(context.Background(), companyID, created.ID, dto.LineRequest{ProductID: "404", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.AddLine(context.Background(), companyID, created.ID, dto.LineRequest{ProductID: "100", Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrIncompleteLine)

	got, err := f.uc.Get(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines, "los detalles rechazados no se guardan")
}

func TestDraftUseCase_FlujoContadoHastaPoderEnviar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := newSaleDraft(t, f)
	_, err := f.uc.SetHeader(ctx, companyID, created.ID, dto.HeaderRequest{CustomerID: "10", WarehouseID: "1"})
	require.NoError(t, err)
	_, err = f.uc.AddLine(ctx, companyID, created.ID, dto.LineRequest{ProductID: "100", Quantity: d("3")})
	require.NoError(t, err)

	_, err = f.uc.SetPaymentMethods(ctx, companyID, created.ID, dto.PaymentMethodsRequest{
		Amounts: map[string]decimal.Decimal{"cash": d("30"), "card": d("6")},
	})
	assert.ErrorIs(t, err, domain.ErrOverAllocation)

	resp, err := f.uc.SetPaymentMethods(ctx, companyID, created.ID, dto.PaymentMethodsRequest{
		Amounts: map[string]decimal.Decimal{"cash": d("30"), "card": d("5.40")},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cash": "30.00", "card": "5.40"}, resp.PaymentMethods)
	assert.True(t, resp.CanSubmit, "issues: %v", resp.Issues)
	assert.Empty(t, resp.Issues)
}

func TestDraftUseCase_CreditoYRetencion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := newSaleDraft(t, f)
	_, err := f.uc.SetHeader(ctx, companyID, created.ID, dto.HeaderRequest{CustomerID: "11", WarehouseID: "1"})
	require.NoError(t, err)
	_, err = f.uc.AddLine(ctx, companyID, created.ID, dto.LineRequest{ProductID: "100", Quantity: d("1"), UnitPrice: ptr(d("1000"))})
	require.NoError(t, err)

	resp, err := f.uc.SetPaymentType(ctx, companyID, created.ID, dto.PaymentTypeRequest{PaymentType: "CREDITO"})
	require.NoError(t, err)
	require.Len(t, resp.Installments, 1)
	assert.Equal(t, 30, resp.Installments[0].DueDays)
	assert.Equal(t, "1000.00", resp.Installments[0].Amount)
	assert.Nil(t, resp.PaymentMethods)

	resp, err = f.uc.SetRetention(ctx, companyID, created.ID, dto.RetentionRequest{Enabled: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "30.00", resp.Totals.RetentionAmount)
	assert.Equal(t, "970.00", resp.Totals.NetPayable)
	require.Len(t, resp.Installments, 1)
	assert.Equal(t, 0, resp.Installments[0].DueDays)
	assert.Equal(t, "970.00", resp.Installments[0].Amount)

	// dividir en dos cuotas
	_, err = f.uc.UpdateInstallment(ctx, companyID, created.ID, 0, dto.InstallmentRequest{DueDays: 30, Amount: d("500")})
	require.NoError(t, err)
	_, err = f.uc.AddInstallment(ctx, companyID, created.ID, dto.InstallmentRequest{DueDays: 60, Amount: d("470.01")})
	assert.ErrorIs(t, err, domain.ErrOverAllocation)
	resp, err = f.uc.AddInstallment(ctx, companyID, created.ID, dto.InstallmentRequest{DueDays: 60, Amount: d("470")})
	require.NoError(t, err)
	assert.True(t, resp.CanSubmit, "issues: %v", resp.Issues)

	resp, err = f.uc.RemoveInstallment(ctx, companyID, created.ID, 1)
	require.NoError(t, err)
	assert.False(t, resp.CanSubmit)

	resp, err = f.uc.SetPaymentType(ctx, companyID, created.ID, dto.PaymentTypeRequest{PaymentType: "CONTADO"})
	require.NoError(t, err)
	assert.Empty(t, resp.Installments)
}

func TestDraftUseCase_ImportarPedido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sources.On("GetByID", mock.Anything, entity.SourceTypeOrder, "55").Return(&entity.SourceDocument{
		ID: "55", CompanyID: companyID, Type: entity.SourceTypeOrder,
		CustomerID: "10", WarehouseID: "1", Currency: "PEN", Observations: "pedido web",
		Details: []entity.SourceLine{
			{ProductID: "100", Quantity: d("2"), UnitPrice: d("11.80"), TaxIncluded: true},
			{ProductID: "101", Quantity: d("3"), UnitPrice: d("10"), TaxIncluded: false},
		},
	}, nil)
	created := newSaleDraft(t, f)
	_, err := f.uc.AddLine(ctx, companyID, created.ID, dto.LineRequest{ProductID: "100", Quantity: d("9")})
	require.NoError(t, err)

	resp, err := f.uc.Import(ctx, companyID, created.ID, dto.ImportRequest{SourceType: "ORDER", SourceID: "55"})
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 2, "la importación reemplaza los detalles")
	assert.Equal(t, "10", resp.Header.CustomerID)
	assert.Equal(t, "MAYORISTA", resp.Header.PriceCategory)
	assert.Equal(t, "ORDER", resp.Header.SourceType)
	assert.Equal(t, "55", resp.Header.SourceID)
	assert.Equal(t, created.Header.IssueDate, resp.Header.IssueDate)
	assert.Equal(t, "59.00", resp.Totals.Total)
	f.sources.AssertExpectations(t)
}

func TestDraftUseCase_ImportarOrigenNoPermitido(t *testing.T) {
	f := newFixture(t)
	created := newSaleDraft(t, f)

	_, err := f.uc.Import(context.Background(), companyID, created.ID, dto.ImportRequest{SourceType: "PURCHASE", SourceID: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidSource)
	f.sources.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}
