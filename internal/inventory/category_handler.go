package inventory

import (
	"strings"

	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Version     *int   `json:"version"`
}

// POST /api/inventory/category
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom de la catégorie est obligatoire")
		}

		category := models.Category{
			ID:          body.ID,
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
			Status:      defaultStatus(body.Status),
			Version:     1,
		}
		if category.ID == "" {
			category.ID = uuid.NewString()
		}

		if err := database.DB.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La catégorie n'a pas pu être créée")
		}

		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

// PUT /api/inventory/category/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom de la catégorie est obligatoire")
		}

		var existing models.Category
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Catégorie introuvable")
		}

		updates := map[string]interface{}{
			"name":        strings.TrimSpace(body.Name),
			"description": body.Description,
			"status":      defaultStatus(body.Status),
			"version":     gorm.Expr("version + 1"),
		}

		res := conditionalUpdate(database.DB.Model(&models.Category{}), id, body.Version).Updates(updates)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La catégorie n'a pas pu être mise à jour")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "La catégorie a été modifiée entre-temps, rechargez-la")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// DELETE /api/inventory/category/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := database.DB.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "La catégorie n'a pas pu être supprimée")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Catégorie introuvable")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}
