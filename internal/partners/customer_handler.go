package partners

import (
	"strings"

	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Version *int   `json:"version"`
}

// POST /api/partners/customer
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du client est obligatoire")
		}

		customer := models.Customer{
			ID:      body.ID,
			Name:    strings.TrimSpace(body.Name),
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Status:  defaultStatus(body.Status),
			Version: 1,
		}
		if customer.ID == "" {
			customer.ID = uuid.NewString()
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le client n'a pas pu être créé")
		}

		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// PUT /api/partners/customer/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du client est obligatoire")
		}

		var existing models.Customer
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		res := conditionalUpdate(database.DB.Model(&models.Customer{}), id, body.Version).Updates(map[string]interface{}{
			"name":    strings.TrimSpace(body.Name),
			"email":   strings.TrimSpace(strings.ToLower(body.Email)),
			"status":  defaultStatus(body.Status),
			"version": gorm.Expr("version + 1"),
		})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le client n'a pas pu être mis à jour")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Le client a été modifié entre-temps, rechargez-le")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// DELETE /api/partners/customer/:id  (managers uniquement, appliqué au routage)
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := database.DB.Delete(&models.Customer{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le client n'a pas pu être supprimé")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}
