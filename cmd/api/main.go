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

	"github.com/jhoicas/comercio-api/internal/application/auth"
	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/inventory"
	"github.com/jhoicas/comercio-api/internal/application/purchase"
	"github.com/jhoicas/comercio-api/internal/application/sale"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/application/usecase"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/internal/infrastructure/memory"
	"github.com/jhoicas/comercio-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/comercio-api/internal/interfaces/http"
	"github.com/jhoicas/comercio-api/pkg/config"
	"github.com/jhoicas/comercio-api/pkg/logger"
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
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		runner   uow.Runner
		repos    uow.Repos
		userRepo repository.UserRepository
	)
	if cfg.App.Store == "memory" {
		// Modo desarrollo sin PostgreSQL: todo vive en memoria del proceso.
		store := memory.NewStore()
		runner = store
		repos = store.Repos()
		userRepo = store.Users()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		runner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(repos.Products)
	supplierUC := usecase.NewSupplierUseCase(repos.Suppliers)
	purchaseUC := purchase.NewUseCase(runner, repos.Purchases)
	saleUC := sale.NewUseCase(runner, repos.Sales)
	cashUC := cash.NewLedgerUseCase(runner, repos.CashMovs)
	inventoryUC := inventory.NewQueryUseCase(repos.Lots, repos.StockMovs)

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
		Title:    "Comercio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		PurchaseUC:  purchaseUC,
		SaleUC:      saleUC,
		CashUC:      cashUC,
		InventoryUC: inventoryUC,
		JWTSecret:   cfg.JWT.Secret,
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
