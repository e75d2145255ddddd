package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/irshados/backoffice/internal/application/auth"
	"github.com/irshados/backoffice/internal/application/catalog"
	"github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/pos"
	"github.com/irshados/backoffice/internal/application/purchasing"
	"github.com/irshados/backoffice/internal/application/restaurant"
	"github.com/irshados/backoffice/internal/application/sales"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *catalog.UseCase
	AuthUC       *auth.UseCase
	InventoryUC  *inventory.UseCase
	PurchasingUC *purchasing.UseCase
	SalesUC      *sales.UseCase
	POSUC        *pos.UseCase
	RestaurantUC *restaurant.UseCase
	TenantRepo   repository.TenantRepository
	PDF          InvoicePDFGenerator
	XML          InvoiceXMLExporter
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Tenants (público: alta de negocio previa al primer usuario)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Post("/tenants", catalogHandler.CreateTenant)

	// Rutas protegidas (requieren Bearer Token; el middleware activa el tenant)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	protected.Post("/variants", catalogHandler.CreateVariant)
	protected.Get("/variants", catalogHandler.ListVariants)
	protected.Post("/warehouses", catalogHandler.CreateWarehouse)
	protected.Get("/warehouses", catalogHandler.ListWarehouses)

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/balances", inventoryHandler.ListBalances)
	invGroup.Get("/balances/:variant_id/:warehouse_id", inventoryHandler.GetBalance)
	invGroup.Get("/ledger", inventoryHandler.ListLedger)

	// Compras (protegido; asentar y cerrar exigen rol de gestión)
	gestion := RequireRole(entity.RoleAdmin, entity.RoleGerente)
	purch := protected.Group("/purchasing")
	purchasingHandler := NewPurchasingHandler(deps.PurchasingUC)
	purch.Post("/orders", purchasingHandler.CreateOrder)
	purch.Post("/orders/:id/cancel", gestion, purchasingHandler.CancelOrder)
	purch.Post("/orders/:id/close", gestion, purchasingHandler.CloseOrder)
	purch.Post("/receipts", purchasingHandler.CreateReceipt)
	purch.Post("/receipts/:id/post", gestion, purchasingHandler.PostReceipt)
	purch.Post("/bills", purchasingHandler.CreateBill)
	purch.Post("/bills/:id/post", gestion, purchasingHandler.PostBill)
	purch.Post("/bills/:id/payments", purchasingHandler.CreatePayment)

	// Ventas (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC, deps.TenantRepo, deps.PDF, deps.XML)
	salesGroup.Post("/orders", salesHandler.CreateOrder)
	salesGroup.Post("/orders/:id/cancel", gestion, salesHandler.CancelOrder)
	salesGroup.Post("/orders/:id/close", gestion, salesHandler.CloseOrder)
	salesGroup.Post("/deliveries", salesHandler.CreateDelivery)
	salesGroup.Post("/deliveries/:id/post", gestion, salesHandler.PostDelivery)
	salesGroup.Post("/invoices", salesHandler.CreateInvoice)
	salesGroup.Post("/invoices/:id/post", gestion, salesHandler.PostInvoice)
	salesGroup.Post("/invoices/:id/payments", salesHandler.CreatePayment)
	salesGroup.Post("/invoices/:id/refunds", gestion, salesHandler.RegisterRefund)
	salesGroup.Get("/invoices/:id/pdf", salesHandler.ExportInvoicePDF)
	salesGroup.Get("/invoices/:id/xml", salesHandler.ExportInvoiceXML)

	// Punto de venta (protegido)
	posGroup := protected.Group("/pos")
	posHandler := NewPOSHandler(deps.POSUC)
	posGroup.Post("/shifts", posHandler.OpenShift)
	posGroup.Post("/shifts/:id/close", posHandler.CloseShift)
	posGroup.Post("/sales", posHandler.CreateSale)
	posGroup.Post("/sales/:id/payments", posHandler.RegisterPayment)
	posGroup.Post("/sales/:id/finalize", posHandler.FinalizeSale)
	posGroup.Post("/sales/:id/cancel", posHandler.CancelSale)
	posGroup.Post("/sales/:id/recalculate", posHandler.RecalculateSale)

	// Restaurante (protegido)
	restGroup := protected.Group("/restaurant")
	restaurantHandler := NewRestaurantHandler(deps.RestaurantUC)
	restGroup.Post("/tickets", restaurantHandler.CreateTicket)
	restGroup.Get("/tickets/:id", restaurantHandler.GetTicket)
}
