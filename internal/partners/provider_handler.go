package partners

import (
	"strings"

	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Version *int   `json:"version"`
}

// POST /api/partners/provider
func CreateProviderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProviderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du fournisseur est obligatoire")
		}

		provider := models.Provider{
			ID:      body.ID,
			Name:    strings.TrimSpace(body.Name),
			Status:  defaultStatus(body.Status),
			Version: 1,
		}
		if provider.ID == "" {
			provider.ID = uuid.NewString()
		}

		if err := database.DB.Create(&provider).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le fournisseur n'a pas pu être créé")
		}

		return c.Status(fiber.StatusCreated).JSON(provider)
	}
}

// PUT /api/partners/provider/:id
func UpdateProviderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body ProviderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du fournisseur est obligatoire")
		}

		var existing models.Provider
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fournisseur introuvable")
		}

		res := conditionalUpdate(database.DB.Model(&models.Provider{}), id, body.Version).Updates(map[string]interface{}{
			"name":    strings.TrimSpace(body.Name),
			"status":  defaultStatus(body.Status),
			"version": gorm.Expr("version + 1"),
		})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le fournisseur n'a pas pu être mis à jour")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Le fournisseur a été modifié entre-temps, rechargez-le")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// DELETE /api/partners/provider/:id  (managers uniquement, appliqué au routage)
func DeleteProviderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := database.DB.Delete(&models.Provider{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le fournisseur n'a pas pu être supprimé")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Fournisseur introuvable")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}
