package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial/internal/application/documents"
	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

// DraftHandler maneja el ciclo de vida de los borradores de documentos (protegido).
type DraftHandler struct {
	drafts    *documents.DraftUseCase
	submit    *documents.SubmitUseCase
	export    *documents.ExportUseCase
	validator *validator.Validate
	log       *logger.Logger
}

// NewDraftHandler construye el handler.
func NewDraftHandler(drafts *documents.DraftUseCase, submit *documents.SubmitUseCase, export *documents.ExportUseCase, v *validator.Validate, log *logger.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, submit: submit, export: export, validator: v, log: log}
}

// Create godoc
// @Summary      Abrir borrador
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDraftRequest  true  "Tipo de documento"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drafts [post]
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDraftRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	out, err := h.drafts.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Estado del borrador
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.drafts.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Cancelar borrador
// @Tags         drafts
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.drafts.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetHeader godoc
// @Summary      Actualizar cabecera
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del borrador"
// @Param        body  body  dto.HeaderRequest  true  "Cabecera"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/header [put]
func (h *DraftHandler) SetHeader(c *fiber.Ctx) error {
	var in dto.HeaderRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.SetHeader(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// AddLine godoc
// @Summary      Agregar detalle
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del borrador"
// @Param        body  body  dto.LineRequest  true  "Detalle"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/lines [post]
func (h *DraftHandler) AddLine(c *fiber.Ctx) error {
	var in dto.LineRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.AddLine(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// UpdateLine godoc
// @Summary      Editar detalle
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path  string           true  "ID del borrador"
// @Param        index  path  int              true  "Posición del detalle (desde 0)"
// @Param        body   body  dto.LineRequest  true  "Detalle"
// @Success      200    {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/lines/{index} [put]
func (h *DraftHandler) UpdateLine(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return invalidIndex(c)
	}
	var in dto.LineRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.UpdateLine(c.UserContext(), GetCompanyID(c), c.Params("id"), index, in))
}

// RemoveLine godoc
// @Summary      Quitar detalle
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "ID del borrador"
// @Param        index  path  int     true  "Posición del detalle (desde 0)"
// @Success      200    {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/lines/{index} [delete]
func (h *DraftHandler) RemoveLine(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return invalidIndex(c)
	}
	return h.reply(c)(h.drafts.RemoveLine(c.UserContext(), GetCompanyID(c), c.Params("id"), index))
}

// SetPaymentType godoc
// @Summary      Condición de pago (CONTADO / CREDITO)
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.PaymentTypeRequest  true  "Condición"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/payment-type [put]
func (h *DraftHandler) SetPaymentType(c *fiber.Ctx) error {
	var in dto.PaymentTypeRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.SetPaymentType(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// SetRetention godoc
// @Summary      Marcar o desmarcar retención
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del borrador"
// @Param        body  body  dto.RetentionRequest  true  "Retención"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/retention [put]
func (h *DraftHandler) SetRetention(c *fiber.Ctx) error {
	var in dto.RetentionRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.SetRetention(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// AddInstallment godoc
// @Summary      Agregar cuota
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.InstallmentRequest  true  "Cuota"
// @Success      200   {object}  dto.DraftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/installments [post]
func (h *DraftHandler) AddInstallment(c *fiber.Ctx) error {
	var in dto.InstallmentRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.AddInstallment(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// UpdateInstallment godoc
// @Summary      Editar cuota
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path  string                  true  "ID del borrador"
// @Param        index  path  int                     true  "Posición de la cuota (desde 0)"
// @Param        body   body  dto.InstallmentRequest  true  "Cuota"
// @Success      200    {object}  dto.DraftResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/installments/{index} [put]
func (h *DraftHandler) UpdateInstallment(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return invalidIndex(c)
	}
	var in dto.InstallmentRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.UpdateInstallment(c.UserContext(), GetCompanyID(c), c.Params("id"), index, in))
}

// RemoveInstallment godoc
// @Summary      Quitar cuota
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "ID del borrador"
// @Param        index  path  int     true  "Posición de la cuota (desde 0)"
// @Success      200    {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/installments/{index} [delete]
func (h *DraftHandler) RemoveInstallment(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return invalidIndex(c)
	}
	return h.reply(c)(h.drafts.RemoveInstallment(c.UserContext(), GetCompanyID(c), c.Params("id"), index))
}

// SetPaymentMethods godoc
// @Summary      Montos por medio de pago (contado)
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del borrador"
// @Param        body  body  dto.PaymentMethodsRequest  true  "Montos"
// @Success      200   {object}  dto.DraftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/payment-methods [put]
func (h *DraftHandler) SetPaymentMethods(c *fiber.Ctx) error {
	var in dto.PaymentMethodsRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.SetPaymentMethods(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// Import godoc
// @Summary      Importar desde documento origen
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del borrador"
// @Param        body  body  dto.ImportRequest  true  "Origen"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/import [post]
func (h *DraftHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if ok, err := bindJSON(c, h.validator, &in); !ok {
		return err
	}
	return h.reply(c)(h.drafts.Import(c.UserContext(), GetCompanyID(c), c.Params("id"), in))
}

// Submit godoc
// @Summary      Guardar documento
// @Description  Valida localmente y envía al servicio de persistencia. Un segundo envío mientras el primero está en curso responde 409.
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.SubmitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	out, err := h.submit.Submit(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF godoc
// @Summary      Vista previa PDF
// @Tags         drafts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {file}  binary
// @Router       /api/drafts/{id}/pdf [get]
func (h *DraftHandler) PDF(c *fiber.Ctx) error {
	f, err := h.export.PDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, f)
}

// XML godoc
// @Summary      Exportar UBL 2.1
// @Description  El header X-Content-Digest lleva el SHA-256 (base64) del XML canónico.
// @Tags         drafts
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {file}  binary
// @Router       /api/drafts/{id}/xml [get]
func (h *DraftHandler) XML(c *fiber.Ctx) error {
	f, err := h.export.XML(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, f)
}

// reply responde el estado del borrador o el error mapeado.
func (h *DraftHandler) reply(c *fiber.Ctx) func(*dto.DraftResponse, error) error {
	return func(out *dto.DraftResponse, err error) error {
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

func invalidIndex(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "el índice debe ser numérico"})
}

func sendFile(c *fiber.Ctx, f *documents.ExportFile) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+f.Filename+`"`)
	if f.Digest != "" {
		c.Set("X-Content-Digest", "sha-256="+f.Digest)
	}
	return c.Send(f.Content)
}
