package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/auth"
	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/inventory"
	"github.com/jhoicas/comercio-api/internal/application/purchase"
	"github.com/jhoicas/comercio-api/internal/application/sale"
	"github.com/jhoicas/comercio-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	PurchaseUC  *purchase.UseCase
	SaleUC      *sale.UseCase
	CashUC      *cash.LedgerUseCase
	InventoryUC *inventory.QueryUseCase
	JWTSecret   string
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

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Purchases (protegido; editar y anular solo admin)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", RequireRole("admin"), purchaseHandler.Update)
	purchases.Post("/:id/annul", RequireRole("admin"), purchaseHandler.Annul)

	// Sales (protegido; anular solo admin)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/annul", RequireRole("admin"), saleHandler.Annul)

	// Cash (protegido)
	cashGroup := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.CashUC)
	cashGroup.Post("/movements", cashHandler.Create)
	cashGroup.Get("/movements", cashHandler.List)
	cashGroup.Put("/movements/:id", cashHandler.Update)
	cashGroup.Delete("/movements/:id", cashHandler.Delete)

	// Inventory queries (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Get("/lots", inventoryHandler.ListLots)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
}
