package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/pkg/logger"
)

// BillHandler maneja las peticiones HTTP de ventas (protegido).
type BillHandler struct {
	createUC *billing.CreateBillUseCase
	queryUC  *billing.BillQueryUseCase
	pdfUC    *billing.PDFUseCase
	log      *logger.Logger
}

// NewBillHandler construye el handler de ventas.
func NewBillHandler(createUC *billing.CreateBillUseCase, queryUC *billing.BillQueryUseCase, pdfUC *billing.PDFUseCase, log *logger.Logger) *BillHandler {
	return &BillHandler{createUC: createUC, queryUC: queryUC, pdfUC: pdfUC, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida el carrito, descuenta el stock y crea la factura en una sola transacción.
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "total y carrito"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.CreateBill(c.UserContext(), in)
	if err != nil {
		return h.mapSaleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// mapSaleError traduce los errores del caso de uso de venta a respuestas HTTP.
// Los fallos de almacenamiento se loguean y se responden opacos: el detalle
// interno de la BD nunca llega al cliente.
func (h *BillHandler) mapSaleError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	var notFound *domain.ProductNotFoundError
	switch {
	case errors.Is(err, domain.ErrInvalidCart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CART", Message: "carrito vacío o con cantidades no positivas"})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente para el producto %d", insufficient.ProductID),
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "PRODUCT_NOT_FOUND",
			Message: fmt.Sprintf("el producto %d no existe", notFound.ProductID),
		})
	case errors.Is(err, domain.ErrBusy):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BUSY", Message: "inventario ocupado, reintente"})
	default:
		h.log.Error().Err(err).Msg("registrar venta")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
}

// List godoc
// @Summary      Listar ventas con sus líneas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BillWithLinesResponse
// @Router       /api/bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	out, err := h.queryUC.ListBills(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("listar ventas")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.BillWithLinesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	out, err := h.queryUC.GetBill(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		h.log.Error().Err(err).Int64("bill_id", id).Msg("obtener venta")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.JSON(out)
}

// GetPDF godoc
// @Summary      Recibo PDF de una venta
// @Tags         bills
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id}/pdf [get]
func (h *BillHandler) GetPDF(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id numérico requerido"})
	}
	pdfBytes, err := h.pdfUC.GetBillPDF(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		h.log.Error().Err(err).Int64("bill_id", id).Msg("generar recibo PDF")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="recibo-%d.pdf"`, id))
	return c.Send(pdfBytes)
}
