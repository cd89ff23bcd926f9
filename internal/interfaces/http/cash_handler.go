package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/cash"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
)

// CashHandler maneja las sesiones de caja (protegido).
type CashHandler struct {
	uc *cash.CashSessionUseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cash.CashSessionUseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir sesión de caja
// @Description  Solo puede haber una sesión abierta. Si ya existe, responde 409 con la sesión actual.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "opening_amount, cashier_name opcional"
// @Success      201   {object}  dto.CashSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.CashSessionResponse
// @Router       /api/cash-sessions [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Open(c.Context(), GetName(c), in)
	if err != nil {
		if err == domain.ErrSessionAlreadyOpen {
			// Se devuelve la sesión vigente para que el cliente redirija.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":    "SESSION_ALREADY_OPEN",
				"message": "ya hay una sesión de caja abierta",
				"session": out,
			})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current godoc
// @Summary      Sesión abierta actual
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/current [get]
func (h *CashHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_OPEN_SESSION", Message: "no hay sesión de caja abierta"})
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener sesión
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id} [get]
func (h *CashHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return cashError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sesiones
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.CashSessionResponse
// @Router       /api/cash-sessions [get]
func (h *CashHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Count godoc
// @Summary      Arqueo intermedio
// @Description  Recalcula el esperado desde el historial de ventas y registra el conteo.
//
//	Repetible; la sesión queda en counted.
//
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la sesión"
// @Param        body  body  dto.CountCashRequest  true  "actual_amount, notes"
// @Success      200   {object}  dto.CashSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/count [post]
func (h *CashHandler) Count(c *fiber.Ctx) error {
	var in dto.CountCashRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Count(c.Context(), c.Params("id"), in)
	if err != nil {
		return cashError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar sesión de caja
// @Description  Conciliación final con end_time. Una sesión cerrada es inmutable.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la sesión"
// @Param        body  body  dto.CloseSessionRequest  true  "actual_amount, notes"
// @Success      200   {object}  dto.CashSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Close(c.Context(), c.Params("id"), in)
	if err != nil {
		return cashError(c, err)
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Recalcular totales de la sesión
// @Description  Operación administrativa: recomputa totales y esperado desde los registros
//
//	de venta de la ventana de la sesión. Solo admin.
//
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/recalculate [post]
func (h *CashHandler) Recalculate(c *fiber.Ctx) error {
	out, err := h.uc.Recalculate(c.Context(), c.Params("id"))
	if err != nil {
		return cashError(c, err)
	}
	return c.JSON(out)
}

// cashError mapea errores de dominio de caja a códigos HTTP.
func cashError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
	case domain.ErrSessionNotOpenOrCounted:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "la sesión ya está cerrada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
