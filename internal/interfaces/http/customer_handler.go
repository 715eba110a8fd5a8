package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial/internal/application/dto"
	"github.com/jhoicas/gestion-comercial/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial/pkg/logger"
)

// CustomerHandler lista clientes para la cabecera (protegido, solo lectura).
type CustomerHandler struct {
	uc        *usecase.CustomerUseCase
	validator *validator.Validate
	log       *logger.Logger
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase, v *validator.Validate, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{uc: uc, validator: v, log: log}
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	if err := h.validator.Struct(page); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
