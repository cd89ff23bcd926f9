package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/alerts"
	"github.com/jhoicas/Tienda-api/internal/application/auth"
	"github.com/jhoicas/Tienda-api/internal/application/cash"
	"github.com/jhoicas/Tienda-api/internal/application/expiration"
	"github.com/jhoicas/Tienda-api/internal/application/ledger"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	LedgerUC       *ledger.LedgerUseCase
	CashUC         *cash.CashSessionUseCase
	ExpirationUC   *expiration.BatchUseCase
	NotificationUC *alerts.NotificationUseCase
	JWTSecret      string
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

	adminOnly := RequireRole(entity.RoleAdmin)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Products (protegido; creación solo admin/bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", stockRoles, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Ledger de movimientos (protegido)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	products.Get("/:id/ledger-check", ledgerHandler.LedgerCheck)
	inv := protected.Group("/inventory")
	inv.Post("/movements", stockRoles, ledgerHandler.Append)
	inv.Get("/movements", ledgerHandler.ListMovements)
	inv.Post("/adjust", stockRoles, ledgerHandler.Adjust)
	inv.Post("/replenishments", stockRoles, ledgerHandler.Replenish)

	// Sales (protegido; cualquier rol autenticado puede vender)
	saleHandler := NewSaleHandler(deps.LedgerUC)
	protected.Post("/sales", saleHandler.Register)

	// Cash sessions (protegido)
	sessions := protected.Group("/cash-sessions")
	cashHandler := NewCashHandler(deps.CashUC)
	sessions.Post("/", cashHandler.Open)
	sessions.Get("/", cashHandler.List)
	sessions.Get("/current", cashHandler.Current)
	sessions.Get("/:id", cashHandler.Get)
	sessions.Post("/:id/count", cashHandler.Count)
	sessions.Post("/:id/close", cashHandler.Close)
	sessions.Post("/:id/recalculate", adminOnly, cashHandler.Recalculate)

	// Expiration batches (protegido)
	batches := protected.Group("/expiration-batches")
	expirationHandler := NewExpirationHandler(deps.ExpirationUC)
	batches.Get("/", expirationHandler.List)
	batches.Get("/:id", expirationHandler.Get)
	batches.Put("/:id/quantity", stockRoles, expirationHandler.SetQuantity)

	// Notifications (protegido)
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)
}
