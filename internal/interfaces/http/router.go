package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Drafts     *documents.DraftUseCase
	Submit     *documents.SubmitUseCase
	Export     *documents.ExportUseCase
	ProductUC  *usecase.ProductUseCase
	Warehouses *usecase.WarehouseUseCase
	Customers  *usecase.CustomerUseCase
	Validator  *validator.Validate
	Log        *logger.Logger
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Borradores: un borrador por formulario abierto
	drafts := api.Group("/drafts")
	dh := NewDraftHandler(deps.Drafts, deps.Submit, deps.Export, v, log)
	drafts.Post("/", dh.Create)
	drafts.Get("/:id", dh.Get)
	drafts.Delete("/:id", dh.Delete)
	drafts.Put("/:id/header", dh.SetHeader)
	drafts.Post("/:id/lines", dh.AddLine)
	drafts.Put("/:id/lines/:index", dh.UpdateLine)
	drafts.Delete("/:id/lines/:index", dh.RemoveLine)
	drafts.Put("/:id/payment-type", dh.SetPaymentType)
	drafts.Put("/:id/retention", dh.SetRetention)
	drafts.Post("/:id/installments", dh.AddInstallment)
	drafts.Put("/:id/installments/:index", dh.UpdateInstallment)
	drafts.Delete("/:id/installments/:index", dh.RemoveInstallment)
	drafts.Put("/:id/payment-methods", dh.SetPaymentMethods)
	drafts.Post("/:id/import", dh.Import)
	drafts.Post("/:id/submit", dh.Submit)
	drafts.Get("/:id/pdf", dh.PDF)
	drafts.Get("/:id/xml", dh.XML)

	// Datos de referencia (solo lectura)
	products := api.Group("/products")
	ph := NewProductHandler(deps.ProductUC, v, log)
	products.Get("/", ph.List)
	products.Get("/:id", ph.GetByID)

	api.Get("/warehouses", NewWarehouseHandler(deps.Warehouses, log).List)
	api.Get("/customers", NewCustomerHandler(deps.Customers, v, log).List)
}
