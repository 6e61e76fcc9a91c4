package sales

import (
	"fmt"
	"time"

	"odicam-backend/internal/auth"
	"odicam-backend/internal/database"
	"odicam-backend/internal/invoice"
	"odicam-backend/internal/models"
	"odicam-backend/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type SaleRequest struct {
	ID             string             `json:"id"`
	CustomerID     string             `json:"customer_id"`
	InitiationDate string             `json:"initiation_date"` // "2026-02-10", vide = aujourd'hui
	AmountPaid     float64            `json:"amount_paid"`
	Status         models.OrderStatus `json:"status"`
	Items          []SaleItemRequest  `json:"items"`
	Version        *int               `json:"version"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Le format de date attendu est 'YYYY-MM-DD'")
	}
	return d, nil
}

func validateSale(body *SaleRequest) error {
	if body.CustomerID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "customer_id est obligatoire")
	}
	var customer models.Customer
	if err := database.DB.First(&customer, "id = ?", body.CustomerID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Client introuvable")
	}

	if body.Status == "" {
		body.Status = models.OrderStatusPending
	}
	if !body.Status.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "Statut invalide (draft|pending|completed|cancelled)")
	}

	if len(body.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "La vente doit contenir au moins une ligne")
	}
	for _, item := range body.Items {
		if item.ProductID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Chaque ligne doit référencer un produit")
		}
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantité et prix unitaire invalides")
		}
	}
	return nil
}

// checkStock: la quantité demandée par produit ne peut pas dépasser la somme
// des lots de ce produit. Vérifié avant toute écriture: aucune vente ni
// aucun lot n'est touché quand la vérification échoue.
func checkStock(items []SaleItemRequest) error {
	requested := map[string]float64{}
	for _, item := range items {
		requested[item.ProductID] += item.Quantity
	}

	for productID, qty := range requested {
		var available float64
		if err := database.DB.Model(&models.StockBatch{}).
			Where("product_id = ?", productID).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&available).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le stock n'a pas pu être vérifié")
		}
		if qty > available {
			var product models.Product
			name := productID
			if err := database.DB.First(&product, "id = ?", productID).Error; err == nil {
				name = product.Name
			}
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Stock insuffisant pour %s: demandé %g, disponible %g", name, qty, available))
		}
	}
	return nil
}

func totalOf(items []SaleItemRequest) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}

// GET /api/sales
// Le staff ne voit que ses propres ventes.
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var sales []models.Sale
		if err := database.DB.Preload("Items").Order("initiation_date DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les ventes n'ont pas pu être chargées")
		}

		return c.JSON(view.For(role, userID).FilterSales(sales))
	}
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body SaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if err := validateSale(&body); err != nil {
			return err
		}
		if err := checkStock(body.Items); err != nil {
			return err
		}

		initiationDate, err := parseDate(body.InitiationDate)
		if err != nil {
			return err
		}

		total := totalOf(body.Items)
		sale := models.Sale{
			ID:             body.ID,
			CustomerID:     body.CustomerID,
			ManagerID:      userID,
			InitiationDate: initiationDate,
			TotalAmount:    total,
			AmountPaid:     body.AmountPaid,
			PaymentStatus:  models.DerivePaymentStatus(body.AmountPaid, total),
			Status:         body.Status,
			Version:        1,
		}
		if sale.ID == "" {
			sale.ID = uuid.NewString()
		}
		for _, item := range body.Items {
			sale.Items = append(sale.Items, models.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La vente n'a pas pu être créée")
		}

		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body SaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		var existing models.Sale
		if err := database.DB.Preload("Items").First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
		}

		if err := validateSale(&body); err != nil {
			return err
		}
		if err := checkStock(body.Items); err != nil {
			return err
		}

		initiationDate, err := parseDate(body.InitiationDate)
		if err != nil {
			return err
		}
		if body.InitiationDate == "" {
			initiationDate = existing.InitiationDate
		}

		total := totalOf(body.Items)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := conditionalUpdate(tx.Model(&models.Sale{}), id, body.Version).Updates(map[string]interface{}{
				"customer_id":     body.CustomerID,
				"initiation_date": initiationDate,
				"total_amount":    total,
				"amount_paid":     body.AmountPaid,
				"payment_status":  models.DerivePaymentStatus(body.AmountPaid, total),
				"status":          body.Status,
				"version":         gorm.Expr("version + 1"),
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "La vente a été modifiée entre-temps, rechargez-la")
			}

			if err := tx.Delete(&models.SaleItem{}, "sale_id = ?", id).Error; err != nil {
				return err
			}
			items := make([]models.SaleItem, 0, len(body.Items))
			for _, item := range body.Items {
				items = append(items, models.SaleItem{
					SaleID:    id,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
				})
			}
			return tx.Create(&items).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "La vente n'a pas pu être mise à jour")
		}

		database.DB.Preload("Items").First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// GET /api/sales/:id/invoice
// Métadonnées de facturation: nom de fichier normé et total formaté en FCFA.
// Le staff n'obtient que les factures de ses propres ventes.
func SaleInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		id := c.Params("id")
		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
		}
		if len(view.For(role, userID).FilterSales([]models.Sale{sale})) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
		}

		resolve := func(customerID string) string {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", customerID).Error; err != nil {
				return customerID
			}
			return customer.Name
		}

		return c.JSON(fiber.Map{
			"filename":     invoice.SaleInvoiceFilename(sale, resolve),
			"total_amount": invoice.FormatCurrency(sale.TotalAmount),
			"amount_paid":  invoice.FormatCurrency(sale.AmountPaid),
		})
	}
}

// DELETE /api/sales/:id  (managers uniquement, appliqué au routage)
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var existing models.Sale
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.SaleItem{}, "sale_id = ?", id).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Sale{}, "id = ?", id).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La vente n'a pas pu être supprimée")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}

func conditionalUpdate(tx *gorm.DB, id string, version *int) *gorm.DB {
	tx = tx.Where("id = ?", id)
	if version != nil {
		tx = tx.Where("version = ?", *version)
	}
	return tx
}
