package inventory

import (
	"time"

	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchRequest struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	BatchLabel    string  `json:"batch_label"`
	UnitPriceCost float64 `json:"unit_price_cost"`
	Quantity      float64 `json:"quantity"`
	EntryDate     string  `json:"entry_date"` // "2026-02-10"
	Version       *int    `json:"version"`
}

func validateBatch(body *BatchRequest) (time.Time, error) {
	if body.ProductID == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "product_id est obligatoire")
	}
	if body.Quantity < 0 {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "La quantité ne peut pas être négative")
	}

	var product models.Product
	if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Produit introuvable")
	}

	if body.EntryDate == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", body.EntryDate)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Le format de date attendu est 'YYYY-MM-DD'")
	}
	return d, nil
}

// POST /api/inventory/batch
func CreateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		entryDate, err := validateBatch(&body)
		if err != nil {
			return err
		}

		batch := models.StockBatch{
			ID:            body.ID,
			ProductID:     body.ProductID,
			BatchLabel:    body.BatchLabel,
			UnitPriceCost: body.UnitPriceCost,
			Quantity:      body.Quantity,
			EntryDate:     entryDate,
			Version:       1,
		}
		if batch.ID == "" {
			batch.ID = uuid.NewString()
		}

		if err := database.DB.Create(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le lot n'a pas pu être créé")
		}

		return c.Status(fiber.StatusCreated).JSON(batch)
	}
}

// PUT /api/inventory/batch/:id
func UpdateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body BatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		entryDate, err := validateBatch(&body)
		if err != nil {
			return err
		}

		var existing models.StockBatch
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lot introuvable")
		}

		updates := map[string]interface{}{
			"product_id":      body.ProductID,
			"batch_label":     body.BatchLabel,
			"unit_price_cost": body.UnitPriceCost,
			"quantity":        body.Quantity,
			"entry_date":      entryDate,
			"version":         gorm.Expr("version + 1"),
		}

		res := conditionalUpdate(database.DB.Model(&models.StockBatch{}), id, body.Version).Updates(updates)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le lot n'a pas pu être mis à jour")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Le lot a été modifié entre-temps, rechargez-le")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// DELETE /api/inventory/batch/:id
func DeleteBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := database.DB.Delete(&models.StockBatch{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le lot n'a pas pu être supprimé")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Lot introuvable")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}
