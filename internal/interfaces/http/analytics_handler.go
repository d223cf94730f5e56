package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventario/internal/application/analytics"
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/pkg/logger"
)

// AnalyticsHandler reportes de ventas (protegido).
type AnalyticsHandler struct {
	uc  *analytics.UseCase
	log *logger.Logger
}

// NewAnalyticsHandler construye el handler de reportes.
func NewAnalyticsHandler(uc *analytics.UseCase, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, log: log}
}

// Sales godoc
// @Summary      Totales de cada venta con su fecha
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleTotalResponse
// @Router       /api/analytics/sales [get]
func (h *AnalyticsHandler) Sales(c *fiber.Ctx) error {
	out, err := h.uc.SalesSummary()
	if err != nil {
		h.log.Error().Err(err).Msg("reporte de ventas")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.JSON(out)
}

// BestSellers godoc
// @Summary      Productos más vendidos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad de productos"  default(5)
// @Success      200    {array}  dto.BestSellerResponse
// @Router       /api/analytics/best-sellers [get]
func (h *AnalyticsHandler) BestSellers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	out, err := h.uc.BestSellers(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("reporte de más vendidos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
	return c.JSON(out)
}
