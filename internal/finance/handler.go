package finance

import (
	"time"

	"odicam-backend/internal/auth"
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"
	"odicam-backend/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRequest struct {
	ID            string               `json:"id"`
	ReferenceID   string               `json:"reference_id"`
	ReferenceType models.ReferenceType `json:"reference_type"`
	Date          string               `json:"date"` // "2026-02-10", vide = aujourd'hui
	Amount        float64              `json:"amount"`
	Status        string               `json:"status"`
	Version       *int                 `json:"version"`
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

func validatePayment(body *PaymentRequest) error {
	if body.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Le montant doit être supérieur à 0")
	}
	if body.ReferenceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "reference_id est obligatoire")
	}

	switch body.ReferenceType {
	case models.ReferenceSale:
		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", body.ReferenceID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Vente référencée introuvable")
		}
	case models.ReferencePurchaseOrder:
		var order models.PurchaseOrder
		if err := database.DB.First(&order, "id = ?", body.ReferenceID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Commande référencée introuvable")
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, "reference_type invalide (sale|purchase_order)")
	}
	return nil
}

// recomputeSettlement: recalcule amount_paid et payment_status de
// l'enregistrement référencé à partir de la somme de ses règlements actifs.
func recomputeSettlement(tx *gorm.DB, refType models.ReferenceType, refID string) error {
	var paid float64
	if err := tx.Model(&models.Payment{}).
		Where("reference_id = ? AND reference_type = ? AND status <> ?", refID, refType, "cancelled").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error; err != nil {
		return err
	}

	switch refType {
	case models.ReferenceSale:
		var sale models.Sale
		if err := tx.First(&sale, "id = ?", refID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Sale{}).Where("id = ?", refID).Updates(map[string]interface{}{
			"amount_paid":    paid,
			"payment_status": models.DerivePaymentStatus(paid, sale.TotalAmount),
		}).Error
	case models.ReferencePurchaseOrder:
		var order models.PurchaseOrder
		if err := tx.First(&order, "id = ?", refID).Error; err != nil {
			return err
		}
		return tx.Model(&models.PurchaseOrder{}).Where("id = ?", refID).Updates(map[string]interface{}{
			"amount_paid":    paid,
			"payment_status": models.DerivePaymentStatus(paid, order.TotalAmount),
		}).Error
	}
	return nil
}

// GET /api/finance
// Le staff ne voit que les règlements qu'il a saisis.
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var payments []models.Payment
		if err := database.DB.Order("date DESC").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les règlements n'ont pas pu être chargés")
		}

		return c.JSON(view.For(role, userID).FilterPayments(payments))
	}
}

// POST /api/finance
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body PaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if err := validatePayment(&body); err != nil {
			return err
		}

		date, err := parseDate(body.Date)
		if err != nil {
			return err
		}

		payment := models.Payment{
			ID:            body.ID,
			ReferenceID:   body.ReferenceID,
			ReferenceType: body.ReferenceType,
			Date:          date,
			Amount:        body.Amount,
			ManagerID:     userID,
			Status:        defaultStatus(body.Status),
			Version:       1,
		}
		if payment.ID == "" {
			payment.ID = uuid.NewString()
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			return recomputeSettlement(tx, payment.ReferenceType, payment.ReferenceID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le règlement n'a pas pu être créé")
		}

		return c.Status(fiber.StatusCreated).JSON(payment)
	}
}

// PUT /api/finance/:id
func UpdatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body PaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		var existing models.Payment
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Règlement introuvable")
		}

		if err := validatePayment(&body); err != nil {
			return err
		}

		date, err := parseDate(body.Date)
		if err != nil {
			return err
		}
		if body.Date == "" {
			date = existing.Date
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := conditionalUpdate(tx.Model(&models.Payment{}), id, body.Version).Updates(map[string]interface{}{
				"reference_id":   body.ReferenceID,
				"reference_type": body.ReferenceType,
				"date":           date,
				"amount":         body.Amount,
				"status":         defaultStatus(body.Status),
				"version":        gorm.Expr("version + 1"),
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "Le règlement a été modifié entre-temps, rechargez-le")
			}

			// L'ancienne comme la nouvelle référence doivent être recalculées
			if err := recomputeSettlement(tx, existing.ReferenceType, existing.ReferenceID); err != nil {
				return err
			}
			if existing.ReferenceID != body.ReferenceID || existing.ReferenceType != body.ReferenceType {
				return recomputeSettlement(tx, body.ReferenceType, body.ReferenceID)
			}
			return nil
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Le règlement n'a pas pu être mis à jour")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(existing)
	}
}

// DELETE /api/finance/:id  (managers uniquement, appliqué au routage)
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var existing models.Payment
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Règlement introuvable")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Payment{}, "id = ?", id).Error; err != nil {
				return err
			}
			return recomputeSettlement(tx, existing.ReferenceType, existing.ReferenceID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le règlement n'a pas pu être supprimé")
		}

		return c.JSON(fiber.Map{"deleted": id})
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
