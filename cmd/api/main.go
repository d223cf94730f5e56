package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/pos-inventario/internal/application/analytics"
	"github.com/tu-usuario/pos-inventario/internal/application/auth"
	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/application/stock"
	infrapdf "github.com/tu-usuario/pos-inventario/internal/infrastructure/pdf"
	"github.com/tu-usuario/pos-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pos-inventario/internal/interfaces/http"
	"github.com/tu-usuario/pos-inventario/pkg/config"
	"github.com/tu-usuario/pos-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	stockUC := stock.NewUseCase(stockRepo)
	createBillUC := billing.NewCreateBillUseCase(txRunner)
	billQueryUC := billing.NewBillQueryUseCase(billRepo)
	billPDFUC := billing.NewPDFUseCase(billRepo, infrapdf.NewMarotoBillGenerator())
	analyticsUC := analytics.NewUseCase(analyticsRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StockUC:     stockUC,
		CreateBill:  createBillUC,
		BillQuery:   billQueryUC,
		BillPDF:     billPDFUC,
		AnalyticsUC: analyticsUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
