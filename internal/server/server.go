package server

import (
	"log"
	"strings"

	"odicam-backend/internal/admin"
	"odicam-backend/internal/auth"
	"odicam-backend/internal/config"
	"odicam-backend/internal/dashboard"
	"odicam-backend/internal/finance"
	"odicam-backend/internal/inventory"
	"odicam-backend/internal/models"
	"odicam-backend/internal/partners"
	"odicam-backend/internal/procurement"
	"odicam-backend/internal/sales"
	"odicam-backend/internal/seed"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// New construit l'application fiber complète (middlewares + routes).
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erreur inattendue:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erreur serveur inattendue",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Post("/seed", seed.SeedHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protégé
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Inventaire
	protected.Get("/inventory", inventory.ListInventoryHandler())
	protected.Get("/inventory/export", inventory.ExportInventoryHandler())
	protected.Post("/inventory/category", inventory.CreateCategoryHandler())
	protected.Put("/inventory/category/:id", inventory.UpdateCategoryHandler())
	protected.Delete("/inventory/category/:id", inventory.DeleteCategoryHandler())
	protected.Post("/inventory/product", inventory.CreateProductHandler())
	protected.Put("/inventory/product/:id", inventory.UpdateProductHandler())
	protected.Delete("/inventory/product/:id", inventory.DeleteProductHandler())
	protected.Post("/inventory/batch", inventory.CreateBatchHandler())
	protected.Put("/inventory/batch/:id", inventory.UpdateBatchHandler())
	protected.Delete("/inventory/batch/:id", inventory.DeleteBatchHandler())

	// Partenaires (suppression réservée aux managers)
	protected.Get("/partners", partners.ListPartnersHandler())
	protected.Post("/partners/provider", partners.CreateProviderHandler())
	protected.Put("/partners/provider/:id", partners.UpdateProviderHandler())
	protected.Delete("/partners/provider/:id", auth.RequireRole(models.RoleManager), partners.DeleteProviderHandler())
	protected.Post("/partners/customer", partners.CreateCustomerHandler())
	protected.Put("/partners/customer/:id", partners.UpdateCustomerHandler())
	protected.Delete("/partners/customer/:id", auth.RequireRole(models.RoleManager), partners.DeleteCustomerHandler())

	// Ventes
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Put("/sales/:id", sales.UpdateSaleHandler())
	protected.Get("/sales/:id/invoice", sales.SaleInvoiceHandler())
	protected.Delete("/sales/:id", auth.RequireRole(models.RoleManager), sales.DeleteSaleHandler())

	// Commandes fournisseurs
	protected.Get("/procurement", procurement.ListOrdersHandler())
	protected.Post("/procurement", procurement.CreateOrderHandler())
	protected.Put("/procurement/:id", procurement.UpdateOrderHandler())
	protected.Get("/procurement/:id/invoice", auth.RequireRole(models.RoleManager), procurement.OrderInvoiceHandler())
	protected.Delete("/procurement/:id", auth.RequireRole(models.RoleManager), procurement.DeleteOrderHandler())

	// Finance
	protected.Get("/finance", finance.ListPaymentsHandler())
	protected.Post("/finance", finance.CreatePaymentHandler())
	protected.Put("/finance/:id", finance.UpdatePaymentHandler())
	protected.Delete("/finance/:id", auth.RequireRole(models.RoleManager), finance.DeletePaymentHandler())

	// Tableau de bord
	protected.Get("/dashboard", dashboard.DashboardHandler())

	// Administration (managers uniquement)
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleManager))

	adminRoutes.Get("/", admin.ListUsersHandler())
	adminRoutes.Post("/user", admin.CreateUserHandler())
	adminRoutes.Put("/user/:id", admin.UpdateUserHandler())
	adminRoutes.Delete("/user/:id", admin.DeleteUserHandler())
	adminRoutes.Post("/user/:id/ban", admin.BanUserHandler())

	return app
}
