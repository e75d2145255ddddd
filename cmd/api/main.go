package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/irshados/backoffice/internal/application/auth"
	"github.com/irshados/backoffice/internal/application/catalog"
	"github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/pos"
	"github.com/irshados/backoffice/internal/application/purchasing"
	"github.com/irshados/backoffice/internal/application/restaurant"
	"github.com/irshados/backoffice/internal/application/sales"
	infrapdf "github.com/irshados/backoffice/internal/infrastructure/pdf"
	"github.com/irshados/backoffice/internal/infrastructure/postgres"
	"github.com/irshados/backoffice/internal/infrastructure/xmlexport"
	httpRouter "github.com/irshados/backoffice/internal/interfaces/http"
	"github.com/irshados/backoffice/pkg/config"
	"github.com/irshados/backoffice/pkg/logger"
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

	txRunner := postgres.NewTxRunner(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	inventoryUC := inventory.NewUseCase(txRunner, inventory.Policy{
		AllowNegative: cfg.Inventory.AllowNegative,
	}, log)
	purchasingUC := purchasing.NewUseCase(txRunner, inventoryUC, log)
	salesUC := sales.NewUseCase(txRunner, inventoryUC, log)
	posUC := pos.NewUseCase(txRunner, inventoryUC, log)
	restaurantUC := restaurant.NewUseCase(txRunner, inventoryUC, log)
	catalogUC := catalog.NewUseCase(txRunner, tenantRepo)
	authUC := auth.NewUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Backoffice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		AuthUC:       authUC,
		InventoryUC:  inventoryUC,
		PurchasingUC: purchasingUC,
		SalesUC:      salesUC,
		POSUC:        posUC,
		RestaurantUC: restaurantUC,
		TenantRepo:   tenantRepo,
		PDF:          infrapdf.NewInvoicePDFGenerator(),
		XML:          xmlexport.NewInvoiceXMLExporter(),
		JWTSecret:    cfg.JWT.Secret,
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
