package inventory

import (
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InventoryResponse struct {
	Categories []models.Category   `json:"categories"`
	Products   []models.Product    `json:"products"`
	Batches    []models.StockBatch `json:"batches"`
}

// GET /api/inventory
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp InventoryResponse

		if err := database.DB.Order("name").Find(&resp.Categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les catégories n'ont pas pu être chargées")
		}
		if err := database.DB.Order("name").Find(&resp.Products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les produits n'ont pas pu être chargés")
		}
		if err := database.DB.Order("entry_date DESC").Find(&resp.Batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les lots de stock n'ont pas pu être chargés")
		}

		return c.JSON(resp)
	}
}

func defaultStatus(s string) string {
	if s == "" {
		return "active"
	}
	return s
}

// conditionalUpdate: remplacement conditionné par la version quand le client
// en fournit une, dernier-écrit-gagne sinon.
func conditionalUpdate(tx *gorm.DB, id string, version *int) *gorm.DB {
	tx = tx.Where("id = ?", id)
	if version != nil {
		tx = tx.Where("version = ?", *version)
	}
	return tx
}
