package seed

import (
	"log"
	"time"

	"odicam-backend/internal/config"
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identifiants fixes: le seed est rejouable et référençable par la démo.
const (
	DemoManagerID    = "00000000-0000-4000-8000-000000000001"
	DemoStaffID      = "00000000-0000-4000-8000-000000000002"
	DemoManagerEmail = "manager@odicam.demo"
	DemoStaffEmail   = "staff@odicam.demo"
)

// POST /api/seed?force=true
// Sans force, ne fait rien si des données existent déjà. Avec force, vide
// toutes les tables puis recharge le jeu d'exemple et les deux comptes démo.
func SeedHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		force := c.Query("force") == "true"

		var productCount int64
		if err := database.DB.Model(&models.Product{}).Count(&productCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "L'état de la base n'a pas pu être vérifié")
		}

		if productCount > 0 && !force {
			return c.JSON(fiber.Map{"seeded": false, "message": "Des données existent déjà, utilisez force=true pour réinitialiser"})
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := reset(tx); err != nil {
				return err
			}
			return populate(tx, cfg)
		})
		if err != nil {
			log.Printf("seed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Le jeu de données n'a pas pu être chargé")
		}

		return c.JSON(fiber.Map{"seeded": true})
	}
}

func reset(tx *gorm.DB) error {
	// Enfants avant parents
	for _, model := range []interface{}{
		&models.Payment{},
		&models.SaleItem{},
		&models.Sale{},
		&models.PurchaseOrderItem{},
		&models.PurchaseOrder{},
		&models.StockBatch{},
		&models.Product{},
		&models.Category{},
		&models.Provider{},
		&models.Customer{},
		&models.User{},
	} {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func populate(tx *gorm.DB, cfg *config.Config) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedDemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{ID: DemoManagerID, Name: "Awa Diallo", Email: DemoManagerEmail, PasswordHash: string(hash), Role: models.RoleManager, Status: models.UserStatusActive, Version: 1},
		{ID: DemoStaffID, Name: "Moussa Koné", Email: DemoStaffEmail, PasswordHash: string(hash), Role: models.RoleStaff, Status: models.UserStatusActive, Version: 1},
	}
	if err := tx.Create(&users).Error; err != nil {
		return err
	}

	categories := []models.Category{
		{ID: "cat-0001-0000-4000-8000-000000000001", Name: "Boissons", Description: "Boissons et jus", Status: "active", Version: 1},
		{ID: "cat-0002-0000-4000-8000-000000000002", Name: "Épicerie", Description: "Produits d'épicerie sèche", Status: "active", Version: 1},
	}
	if err := tx.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{ID: "prod-001-0000-4000-8000-000000000001", CategoryID: categories[0].ID, Name: "Jus de bissap 1L", BaseUnitPrice: 1500, Status: "active", Version: 1},
		{ID: "prod-002-0000-4000-8000-000000000002", CategoryID: categories[0].ID, Name: "Eau minérale 1,5L", BaseUnitPrice: 500, Status: "active", Version: 1},
		{ID: "prod-003-0000-4000-8000-000000000003", CategoryID: categories[1].ID, Name: "Riz parfumé 5kg", BaseUnitPrice: 4500, Status: "active", Version: 1},
	}
	if err := tx.Create(&products).Error; err != nil {
		return err
	}

	providers := []models.Provider{
		{ID: "prov-001-0000-4000-8000-000000000001", Name: "SODIS Distribution", Status: "active", Version: 1},
		{ID: "prov-002-0000-4000-8000-000000000002", Name: "Comptoir du Sahel", Status: "active", Version: 1},
	}
	if err := tx.Create(&providers).Error; err != nil {
		return err
	}

	customers := []models.Customer{
		{ID: "cust-001-0000-4000-8000-000000000001", Name: "Boutique Santa Yalla", Email: "santayalla@example.com", Status: "active", Version: 1},
		{ID: "cust-002-0000-4000-8000-000000000002", Name: "Restaurant Le Baobab", Email: "lebaobab@example.com", Status: "active", Version: 1},
		{ID: "cust-003-0000-4000-8000-000000000003", Name: "Kiosque Téranga", Email: "", Status: "active", Version: 1},
	}
	if err := tx.Create(&customers).Error; err != nil {
		return err
	}

	finalized := date("2026-01-15")
	orders := []models.PurchaseOrder{
		{
			ID: "po-0001-0000-4000-8000-000000000001", ProviderID: providers[0].ID, ManagerID: DemoManagerID,
			InitiationDate: date("2026-01-10"), FinalizationDate: &finalized,
			TotalAmount: 225000, AmountPaid: 225000, PaymentStatus: models.PaymentStatusPaid,
			Status: models.OrderStatusCompleted, Version: 1,
			Items: []models.PurchaseOrderItem{
				{ProductID: products[0].ID, Quantity: 60, UnitPrice: 1000},
				{ProductID: products[1].ID, Quantity: 300, UnitPrice: 350},
				{ProductID: products[2].ID, Quantity: 15, UnitPrice: 4000},
			},
		},
		{
			ID: "po-0002-0000-4000-8000-000000000002", ProviderID: providers[1].ID, ManagerID: DemoManagerID,
			InitiationDate: date("2026-02-01"),
			TotalAmount:    80000, AmountPaid: 0, PaymentStatus: models.PaymentStatusUnpaid,
			Status: models.OrderStatusPending, Version: 1,
			Items: []models.PurchaseOrderItem{
				{ProductID: products[2].ID, Quantity: 20, UnitPrice: 4000},
			},
		},
	}
	if err := tx.Create(&orders).Error; err != nil {
		return err
	}

	// Lots issus de la commande terminée
	batches := []models.StockBatch{
		{ID: "sb-00001-0000-4000-8000-000000000001", ProductID: products[0].ID, BatchLabel: "PO-0001-1", UnitPriceCost: 1000, Quantity: 60, EntryDate: finalized, Version: 1},
		{ID: "sb-00002-0000-4000-8000-000000000002", ProductID: products[1].ID, BatchLabel: "PO-0001-2", UnitPriceCost: 350, Quantity: 300, EntryDate: finalized, Version: 1},
		{ID: "sb-00003-0000-4000-8000-000000000003", ProductID: products[2].ID, BatchLabel: "PO-0001-3", UnitPriceCost: 4000, Quantity: 15, EntryDate: finalized, Version: 1},
	}
	if err := tx.Create(&batches).Error; err != nil {
		return err
	}

	sales := []models.Sale{
		{
			ID: "sale-001-0000-4000-8000-000000000001", CustomerID: customers[0].ID, ManagerID: DemoManagerID,
			InitiationDate: date("2026-02-05"),
			TotalAmount:    30000, AmountPaid: 30000, PaymentStatus: models.PaymentStatusPaid,
			Status: models.OrderStatusCompleted, Version: 1,
			Items: []models.SaleItem{
				{ProductID: products[0].ID, Quantity: 20, UnitPrice: 1500},
			},
		},
		{
			ID: "sale-002-0000-4000-8000-000000000002", CustomerID: customers[1].ID, ManagerID: DemoStaffID,
			InitiationDate: date("2026-02-08"),
			TotalAmount:    25000, AmountPaid: 10000, PaymentStatus: models.PaymentStatusPartial,
			Status: models.OrderStatusPending, Version: 1,
			Items: []models.SaleItem{
				{ProductID: products[1].ID, Quantity: 50, UnitPrice: 500},
			},
		},
	}
	if err := tx.Create(&sales).Error; err != nil {
		return err
	}

	payments := []models.Payment{
		{ID: "pay-0001-0000-4000-8000-000000000001", ReferenceID: sales[0].ID, ReferenceType: models.ReferenceSale, Date: date("2026-02-05"), Amount: 30000, ManagerID: DemoManagerID, Status: "active", Version: 1},
		{ID: "pay-0002-0000-4000-8000-000000000002", ReferenceID: orders[0].ID, ReferenceType: models.ReferencePurchaseOrder, Date: date("2026-01-20"), Amount: 225000, ManagerID: DemoManagerID, Status: "active", Version: 1},
	}
	return tx.Create(&payments).Error
}
