package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventario/internal/application/analytics"
	"github.com/tu-usuario/pos-inventario/internal/application/auth"
	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/application/stock"
	"github.com/tu-usuario/pos-inventario/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StockUC     *stock.UseCase
	CreateBill  *billing.CreateBillUseCase
	BillQuery   *billing.BillQueryUseCase
	BillPDF     *billing.PDFUseCase
	AnalyticsUC *analytics.UseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Log)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Post("/", stockHandler.Create)
	stockGroup.Get("/:id", stockHandler.GetByID)
	stockGroup.Put("/:id", stockHandler.Update)
	stockGroup.Delete("/:id", stockHandler.Delete)

	// Bills (protegido)
	bills := protected.Group("/bills")
	billHandler := NewBillHandler(deps.CreateBill, deps.BillQuery, deps.BillPDF, deps.Log)
	bills.Post("/", billHandler.Create)
	bills.Get("/", billHandler.List)
	bills.Get("/:id", billHandler.GetByID)
	bills.Get("/:id/pdf", billHandler.GetPDF)

	// Analytics (protegido)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC, deps.Log)
	analyticsGroup.Get("/sales", analyticsHandler.Sales)
	analyticsGroup.Get("/best-sellers", analyticsHandler.BestSellers)
}
