package inventory

import (
	"strings"

	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRequest struct {
	ID            string  `json:"id"`
	CategoryID    string  `json:"category_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	BaseUnitPrice float64 `json:"base_unit_price"`
	Status        string  `json:"status"`
	Version       *int    `json:"version"`
}

func validateProduct(body *ProductRequest) error {
	if strings.TrimSpace(body.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Le nom du produit est obligatoire")
	}
	if body.BaseUnitPrice < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Le prix unitaire ne peut pas être négatif")
	}
	if body.CategoryID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category_id est obligatoire")
	}

	var category models.Category
	if err := database.DB.First(&category, "id = ?", body.CategoryID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Catégorie introuvable")
	}
	return nil
}

// POST /api/inventory/product
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if err := validateProduct(&body); err != nil {
			return err
		}

		product := models.Product{
			ID:            body.ID,
			CategoryID:    body.CategoryID,
			Name:          strings.TrimSpace(body.Name),
			Description:   body.Description,
			BaseUnitPrice: body.BaseUnitPrice,
			Status:        defaultStatus(body.Status),
			Version:       1,
		}
		if product.ID == "" {
			product.ID = uuid.NewString()
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le produit n'a pas pu être créé")
		}

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/inventory/product/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if err := validateProduct(&body); err != nil {
			return err
		}

		var existing models.Product
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}

		updates := map[string]interface{}{
			"category_id":     body.CategoryID,
			"name":            strings.TrimSpace(body.Name),
			"description":     body.Description,
			"base_unit_price": body.BaseUnitPrice,
			"status":          defaultStatus(body.Status),
			"version":         gorm.Expr("version + 1"),
		}

		res := conditionalUpdate(database.DB.Model(&models.Product{}), id, body.Version).Updates(updates)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le produit n'a pas pu être mis à jour")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Le produit a été modifié entre-temps, rechargez-le")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// DELETE /api/inventory/product/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := database.DB.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le produit n'a pas pu être supprimé")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}
