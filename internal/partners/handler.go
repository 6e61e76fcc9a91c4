package partners

import (
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PartnersResponse struct {
	Providers []models.Provider `json:"providers"`
	Customers []models.Customer `json:"customers"`
}

// GET /api/partners
func ListPartnersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp PartnersResponse

		if err := database.DB.Order("name").Find(&resp.Providers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les fournisseurs n'ont pas pu être chargés")
		}
		if err := database.DB.Order("name").Find(&resp.Customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les clients n'ont pas pu être chargés")
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

func conditionalUpdate(tx *gorm.DB, id string, version *int) *gorm.DB {
	tx = tx.Where("id = ?", id)
	if version != nil {
		tx = tx.Where("version = ?", *version)
	}
	return tx
}
