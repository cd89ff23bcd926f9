package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/expiration"
	"github.com/jhoicas/Tienda-api/internal/domain"
)

// ExpirationHandler maneja los lotes fechados (protegido).
type ExpirationHandler struct {
	uc *expiration.BatchUseCase
}

// NewExpirationHandler construye el handler.
func NewExpirationHandler(uc *expiration.BatchUseCase) *ExpirationHandler {
	return &ExpirationHandler{uc: uc}
}

// List godoc
// @Summary      Listar lotes activos
// @Description  Lotes activos con su bucket de vencimiento calculado a la consulta.
// @Tags         expiration
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        bucket      query  string  false  "expired | critical | near | watch | ok"
// @Success      200  {array}   dto.ExpirationBatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/expiration-batches [get]
func (h *ExpirationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.Context(), c.Query("product_id"), c.Query("bucket"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "bucket inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener lote
// @Tags         expiration
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.ExpirationBatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expiration-batches/{id} [get]
func (h *ExpirationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SetQuantity godoc
// @Summary      Corregir cantidad restante de un lote
// @Description  Solo acepta correcciones a la baja. Un intento de aumento responde 409
//
//	QUANTITY_INCREASE y no cambia nada. Al llegar a 0 el lote se desactiva.
//
// @Tags         expiration
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del lote"
// @Param        body  body  dto.SetBatchQuantityRequest  true  "quantity"
// @Success      200   {object}  dto.ExpirationBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expiration-batches/{id}/quantity [put]
func (h *ExpirationHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetBatchQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetQuantity(c.Context(), c.Params("id"), in.Quantity)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cantidad inválida"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado o inactivo"})
		case domain.ErrQuantityIncrease:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUANTITY_INCREASE", Message: "la cantidad de un lote solo puede disminuir"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
