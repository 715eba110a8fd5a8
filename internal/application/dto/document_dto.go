package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDraftRequest body para POST /api/drafts.
type CreateDraftRequest struct {
	DocumentType string `json:"document_type" validate:"required,oneof=ORDER SALE PURCHASE_ORDER PRODUCTION SHIPPING_GUIDE SHIPPING_GUIDE_CARRIER"`
}

// HeaderRequest body para PUT /api/drafts/:id/header.
// Los IDs llegan como texto; se convierten a numéricos solo al enviar.
type HeaderRequest struct {
	CustomerID   string `json:"customer_id" validate:"omitempty,numeric"`
	SupplierID   string `json:"supplier_id" validate:"omitempty,numeric"`
	WarehouseID  string `json:"warehouse_id" validate:"omitempty,numeric"`
	CarrierID    string `json:"carrier_id" validate:"omitempty,numeric"`
	IssueDate    string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	Currency     string `json:"currency" validate:"omitempty,oneof=PEN USD"`
	Observations string `json:"observations" validate:"max=500"`
}

// LineRequest detalle para POST/PUT /api/drafts/:id/lines.
// UnitPrice nil: se usa el precio del producto para la categoría del cliente y la moneda.
// IsIGV nil: se toma del precio del producto (por defecto incluye IGV).
type LineRequest struct {
	ProductID   string           `json:"product_id" validate:"required,numeric"`
	Description string           `json:"description" validate:"max=300"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	IsIGV       *bool            `json:"is_igv"`
}

// PaymentTypeRequest body para PUT /api/drafts/:id/payment-type.
type PaymentTypeRequest struct {
	PaymentType string `json:"payment_type" validate:"required,oneof=CONTADO CREDITO"`
}

// RetentionRequest body para PUT /api/drafts/:id/retention.
type RetentionRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// InstallmentRequest cuota para POST/PUT /api/drafts/:id/installments.
type InstallmentRequest struct {
	DueDays int             `json:"due_days" validate:"min=0,max=3650"`
	Amount  decimal.Decimal `json:"amount"`
}

// PaymentMethodsRequest montos por medio de pago (cash, card, wallet); reemplaza los anteriores.
type PaymentMethodsRequest struct {
	Amounts map[string]decimal.Decimal `json:"amounts" validate:"dive,keys,oneof=cash card wallet,endkeys"`
}

// ImportRequest body para POST /api/drafts/:id/import.
type ImportRequest struct {
	SourceType string `json:"source_type" validate:"required,oneof=QUOTATION ORDER PURCHASE GUIDE"`
	SourceID   string `json:"source_id" validate:"required,numeric"`
}

// DraftResponse estado de un borrador. Los montos van redondeados a 2 decimales para mostrar.
type DraftResponse struct {
	ID             string                `json:"id"`
	DocumentType   string                `json:"document_type"`
	Header         HeaderResponse        `json:"header"`
	Lines          []LineResponse        `json:"lines"`
	PaymentType    string                `json:"payment_type,omitempty"`
	Retention      bool                  `json:"retention"`
	Installments   []InstallmentResponse `json:"installments"`
	PaymentMethods map[string]string     `json:"payment_methods,omitempty"`
	Totals         TotalsResponse        `json:"totals"`
	CanSubmit      bool                  `json:"can_submit"`
	Issues         []string              `json:"issues"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// HeaderResponse cabecera del borrador.
type HeaderResponse struct {
	CustomerID    string `json:"customer_id,omitempty"`
	SupplierID    string `json:"supplier_id,omitempty"`
	WarehouseID   string `json:"warehouse_id,omitempty"`
	CarrierID     string `json:"carrier_id,omitempty"`
	IssueDate     string `json:"issue_date,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PriceCategory string `json:"price_category,omitempty"`
	Observations  string `json:"observations,omitempty"`
	SourceType    string `json:"source_type,omitempty"`
	SourceID      string `json:"source_id,omitempty"`
}

// LineResponse detalle con sus montos derivados.
type LineResponse struct {
	Index       int    `json:"index"`
	ProductID   string `json:"product_id"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	IsIGV       bool   `json:"is_igv"`
	Subtotal    string `json:"subtotal"`
	TaxAmount   string `json:"tax_amount"`
	Total       string `json:"total"`
}

// InstallmentResponse cuota de crédito.
type InstallmentResponse struct {
	Index   int    `json:"index"`
	DueDays int    `json:"due_days"`
	Amount  string `json:"amount"`
}

// TotalsResponse totales del documento.
type TotalsResponse struct {
	Subtotal        string `json:"subtotal"`
	TaxAmount       string `json:"tax_amount"`
	Total           string `json:"total"`
	RetentionAmount string `json:"retention_amount"`
	NetPayable      string `json:"net_payable"`
}

// SubmitResponse documento registrado por el servicio de persistencia.
type SubmitResponse struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"document_type"`
	Number       string    `json:"number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentPayload documento normalizado que se entrega al servicio de persistencia.
// IDs numéricos y montos como números JSON simples.
type DocumentPayload struct {
	DocumentType    string               `json:"document_type"`
	CustomerID      *int64               `json:"customer_id,omitempty"`
	SupplierID      *int64               `json:"supplier_id,omitempty"`
	WarehouseID     *int64               `json:"warehouse_id,omitempty"`
	CarrierID       *int64               `json:"carrier_id,omitempty"`
	IssueDate       string               `json:"issue_date"`
	Currency        string               `json:"currency,omitempty"`
	Observations    string               `json:"observations,omitempty"`
	PaymentType     string               `json:"payment_type,omitempty"`
	Retention       bool                 `json:"retention"`
	SourceType      string               `json:"source_type,omitempty"`
	SourceID        *int64               `json:"source_id,omitempty"`
	Subtotal        float64              `json:"subtotal"`
	TaxAmount       float64              `json:"tax_amount"`
	Total           float64              `json:"total"`
	RetentionAmount float64              `json:"retention_amount"`
	NetPayable      float64              `json:"net_payable"`
	Details         []DetailPayload      `json:"details"`
	Installments    []InstallmentPayload `json:"installments"`
	PaymentMethods  []PaymentPayload     `json:"payment_methods,omitempty"`
}

// DetailPayload detalle en el documento normalizado.
type DetailPayload struct {
	ProductID   int64   `json:"product_id"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	IsIGV       bool    `json:"is_igv"`
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	Total       float64 `json:"total"`
}

// InstallmentPayload cuota en el documento normalizado.
type InstallmentPayload struct {
	DueDays int     `json:"due_days"`
	Amount  float64 `json:"amount"`
}

// PaymentPayload monto por medio de pago (solo al contado).
type PaymentPayload struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}
