package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sedes/internal/application/analytics"
	"github.com/jhoicas/inventario-sedes/internal/application/auth"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	SedeUC          *usecase.SedeUseCase
	CategoryUC      *usecase.CategoryUseCase
	ProviderUC      *usecase.ProviderUseCase
	ProductUC       *usecase.ProductUseCase
	TicketUC        *usecase.TicketUseCase
	StockUC         *inventory.StockUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	SaleUC          *inventory.SaleUseCase
	StockEntryUC    *inventory.StockEntryUseCase
	StockExitUC     *inventory.StockExitUseCase
	DashboardUC     *analytics.DashboardUseCase
	// LoginLimiter limita POST /auth/login por IP. nil lo desactiva.
	LoginLimiter *IPRateLimiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	const (
		admin     = entity.RoleAdmin
		bodeguero = entity.RoleBodeguero
		vendedor  = entity.RoleVendedor
	)
	anyRole := RequireRole(admin, bodeguero, vendedor)
	stockWriters := RequireRole(admin, bodeguero)
	adminOnly := RequireRole(admin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	if deps.LoginLimiter != nil {
		api.Post("/auth/login", deps.LoginLimiter.Handler(), authHandler.Login)
	} else {
		api.Post("/auth/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	authGroup := protected.Group("/auth")
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authHandler.Me)
	authGroup.Post("/sede", authHandler.SelectSede)

	// Usuarios (admin)
	users := protected.Group("/usuarios", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)

	// Sedes (lectura para todos, escritura admin)
	sedes := protected.Group("/sedes")
	sedeHandler := NewSedeHandler(deps.SedeUC)
	sedes.Get("/", anyRole, sedeHandler.List)
	sedes.Get("/:id", anyRole, sedeHandler.GetByID)
	sedes.Post("/", adminOnly, sedeHandler.Create)
	sedes.Put("/:id", adminOnly, sedeHandler.Update)
	sedes.Delete("/:id", adminOnly, sedeHandler.Delete)

	// Categorías y proveedores
	categories := protected.Group("/categorias")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", anyRole, categoryHandler.List)
	categories.Get("/:id", anyRole, categoryHandler.GetByID)
	categories.Post("/", stockWriters, categoryHandler.Create)
	categories.Put("/:id", stockWriters, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	providers := protected.Group("/proveedores")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Get("/", anyRole, providerHandler.List)
	providers.Get("/:id", anyRole, providerHandler.GetByID)
	providers.Post("/", stockWriters, providerHandler.Create)
	providers.Put("/:id", stockWriters, providerHandler.Update)
	providers.Delete("/:id", adminOnly, providerHandler.Delete)

	// Productos
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/import", stockWriters, productHandler.Import)
	products.Get("/export", anyRole, productHandler.Export)
	products.Post("/", stockWriters, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", stockWriters, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventario
	invGroup := protected.Group("/inventario")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ReplenishmentUC)
	invGroup.Get("/sedes/:sede_id/export", anyRole, inventoryHandler.ExportSede)
	invGroup.Get("/sedes/:sede_id", anyRole, inventoryHandler.ListBySede)
	invGroup.Get("/stock", anyRole, inventoryHandler.GetStock)
	invGroup.Post("/ajustes", stockWriters, inventoryHandler.Adjust)
	invGroup.Post("/traslados", stockWriters, inventoryHandler.Transfer)
	invGroup.Get("/kardex/:producto_id", anyRole, inventoryHandler.Kardex)
	invGroup.Get("/reposicion", stockWriters, inventoryHandler.GetReplenishmentList)

	// Ventas
	sales := protected.Group("/ventas")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Get("/export", anyRole, saleHandler.Export)
	sales.Post("/", RequireRole(admin, vendedor), saleHandler.Register)
	sales.Get("/", anyRole, saleHandler.List)
	sales.Get("/:id", anyRole, saleHandler.GetByID)
	sales.Post("/:id/anular", adminOnly, saleHandler.Void)

	// Ingresos y salidas
	entryHandler := NewStockEntryHandler(deps.StockEntryUC, deps.StockExitUC)
	entries := protected.Group("/ingresos", stockWriters)
	entries.Post("/", entryHandler.RegisterEntry)
	entries.Get("/", entryHandler.ListEntries)
	entries.Get("/:id", entryHandler.GetEntry)
	exits := protected.Group("/salidas", stockWriters)
	exits.Post("/", entryHandler.RegisterExit)
	exits.Get("/", entryHandler.ListExits)

	// Tickets (todos los roles; el caso de uso filtra visibilidad)
	tickets := protected.Group("/tickets", anyRole)
	ticketHandler := NewTicketHandler(deps.TicketUC)
	tickets.Post("/", ticketHandler.Create)
	tickets.Get("/", ticketHandler.List)
	tickets.Get("/:id", ticketHandler.GetByID)
	tickets.Post("/:id/asignar", ticketHandler.Assign)
	tickets.Post("/:id/estado", ticketHandler.ChangeStatus)
	tickets.Post("/:id/comentarios", ticketHandler.Comment)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", anyRole, dashboardHandler.GetSummary)
}
