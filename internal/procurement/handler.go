package procurement

import (
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

type OrderItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderRequest struct {
	ID             string             `json:"id"`
	ProviderID     string             `json:"provider_id"`
	InitiationDate string             `json:"initiation_date"` // "2026-02-10", vide = aujourd'hui
	AmountPaid     float64            `json:"amount_paid"`
	Status         models.OrderStatus `json:"status"`
	Items          []OrderItemRequest `json:"items"`
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

func validateOrder(body *OrderRequest) error {
	if body.ProviderID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "provider_id est obligatoire")
	}
	var provider models.Provider
	if err := database.DB.First(&provider, "id = ?", body.ProviderID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Fournisseur introuvable")
	}

	if body.Status == "" {
		body.Status = models.OrderStatusDraft
	}
	if !body.Status.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "Statut invalide (draft|pending|completed|cancelled)")
	}

	if len(body.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "La commande doit contenir au moins une ligne")
	}
	for _, item := range body.Items {
		if item.ProductID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Chaque ligne doit référencer un produit")
		}
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantité et prix unitaire ne peuvent pas être négatifs")
		}
	}
	return nil
}

func totalOf(items []OrderItemRequest) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}

// GET /api/procurement
// Les commandes fournisseurs sont masquées au staff (liste vide).
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var orders []models.PurchaseOrder
		if err := database.DB.Preload("Items").Order("initiation_date DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les commandes n'ont pas pu être chargées")
		}

		return c.JSON(view.For(role, userID).PurchaseOrders(orders))
	}
}

// POST /api/procurement
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body OrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if err := validateOrder(&body); err != nil {
			return err
		}

		initiationDate, err := parseDate(body.InitiationDate)
		if err != nil {
			return err
		}

		total := totalOf(body.Items)
		order := models.PurchaseOrder{
			ID:             body.ID,
			ProviderID:     body.ProviderID,
			ManagerID:      userID,
			InitiationDate: initiationDate,
			TotalAmount:    total,
			AmountPaid:     body.AmountPaid,
			PaymentStatus:  models.DerivePaymentStatus(body.AmountPaid, total),
			Status:         body.Status,
			Version:        1,
		}
		if order.ID == "" {
			order.ID = uuid.NewString()
		}
		for _, item := range body.Items {
			order.Items = append(order.Items, models.PurchaseOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		var createdBatches int
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if order.Status == models.OrderStatusCompleted {
				now := time.Now()
				order.FinalizationDate = &now
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			if order.Status == models.OrderStatusCompleted {
				n, err := materializeStock(tx, &order)
				if err != nil {
					return err
				}
				createdBatches = n
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La commande n'a pas pu être créée")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"order":           order,
			"created_batches": createdBatches,
		})
	}
}

// PUT /api/procurement/:id
// Une commande "completed" ne peut plus changer de statut ni de lignes;
// seuls les champs de règlement restent modifiables.
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body OrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		var existing models.PurchaseOrder
		if err := database.DB.Preload("Items").First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Commande introuvable")
		}

		if body.Status == "" {
			body.Status = existing.Status
		}

		if existing.Status == models.OrderStatusCompleted && body.Status != models.OrderStatusCompleted {
			return fiber.NewError(fiber.StatusConflict, "Une commande terminée ne peut plus changer de statut")
		}

		if existing.Status == models.OrderStatusCompleted {
			// Règlement uniquement; le total et les lignes sont figés.
			res := conditionalUpdate(database.DB.Model(&models.PurchaseOrder{}), id, body.Version).Updates(map[string]interface{}{
				"amount_paid":    body.AmountPaid,
				"payment_status": models.DerivePaymentStatus(body.AmountPaid, existing.TotalAmount),
				"version":        gorm.Expr("version + 1"),
			})
			if res.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "La commande n'a pas pu être mise à jour")
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "La commande a été modifiée entre-temps, rechargez-la")
			}

			database.DB.Preload("Items").First(&existing, "id = ?", id)
			return c.JSON(fiber.Map{"order": existing, "created_batches": 0})
		}

		if err := validateOrder(&body); err != nil {
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
		completing := body.Status == models.OrderStatusCompleted

		var createdBatches int
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"provider_id":     body.ProviderID,
				"initiation_date": initiationDate,
				"total_amount":    total,
				"amount_paid":     body.AmountPaid,
				"payment_status":  models.DerivePaymentStatus(body.AmountPaid, total),
				"status":          body.Status,
				"version":         gorm.Expr("version + 1"),
			}
			if completing {
				now := time.Now()
				updates["finalization_date"] = &now
			}

			res := conditionalUpdate(tx.Model(&models.PurchaseOrder{}), id, body.Version).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "La commande a été modifiée entre-temps, rechargez-la")
			}

			// Remplacement complet des lignes
			if err := tx.Delete(&models.PurchaseOrderItem{}, "order_id = ?", id).Error; err != nil {
				return err
			}
			items := make([]models.PurchaseOrderItem, 0, len(body.Items))
			for _, item := range body.Items {
				items = append(items, models.PurchaseOrderItem{
					OrderID:   id,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
				})
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}

			if completing {
				order := models.PurchaseOrder{ID: id, Items: items}
				n, err := materializeStock(tx, &order)
				if err != nil {
					return err
				}
				createdBatches = n
			}
			return nil
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "La commande n'a pas pu être mise à jour")
		}

		database.DB.Preload("Items").First(&existing, "id = ?", id)
		return c.JSON(fiber.Map{"order": existing, "created_batches": createdBatches})
	}
}

// GET /api/procurement/:id/invoice  (managers uniquement, appliqué au routage)
// Métadonnées de facturation: nom de fichier normé et montants en FCFA.
func OrderInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.PurchaseOrder
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Commande introuvable")
		}

		resolve := func(providerID string) string {
			var provider models.Provider
			if err := database.DB.First(&provider, "id = ?", providerID).Error; err != nil {
				return providerID
			}
			return provider.Name
		}

		return c.JSON(fiber.Map{
			"filename":     invoice.PurchaseInvoiceFilename(order, resolve),
			"total_amount": invoice.FormatCurrency(order.TotalAmount),
			"amount_paid":  invoice.FormatCurrency(order.AmountPaid),
		})
	}
}

// DELETE /api/procurement/:id  (managers uniquement, appliqué au routage)
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var existing models.PurchaseOrder
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Commande introuvable")
		}
		if existing.Status == models.OrderStatusCompleted {
			return fiber.NewError(fiber.StatusConflict, "Une commande terminée ne peut pas être supprimée, son stock est en circulation")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.PurchaseOrderItem{}, "order_id = ?", id).Error; err != nil {
				return err
			}
			return tx.Delete(&models.PurchaseOrder{}, "id = ?", id).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La commande n'a pas pu être supprimée")
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
