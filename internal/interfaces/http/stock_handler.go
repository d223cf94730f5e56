package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/application/stock"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/pkg/logger"
)

// StockHandler maneja las peticiones HTTP del inventario (protegido).
type StockHandler struct {
	uc  *stock.UseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar inventario
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockItemResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		h.log.Error().Err(err).Msg("listar inventario")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Int64("product_id", id).Msg("obtener producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "Datos del producto"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name requerido, quantity no negativa, expiration YYYY-MM-DD"})
		}
		h.log.Error().Err(err).Msg("crear producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateStockItemRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name requerido, quantity no negativa, expiration YYYY-MM-DD"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		h.log.Error().Err(err).Int64("product_id", id).Msg("actualizar producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		h.log.Error().Err(err).Int64("product_id", id).Msg("eliminar producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
