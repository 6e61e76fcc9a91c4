package procurement

import (
	"fmt"
	"time"

	"odicam-backend/internal/invoice"
	"odicam-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// batchID: identifiant stable dérivé de la commande et du rang de la ligne.
// Une re-complétion retombe sur les mêmes identifiants et ne crée donc
// jamais de stock en double.
func batchID(orderID string, itemIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#item-%d", orderID, itemIndex))).String()
}

// materializeStock: crée un lot de stock par ligne de quantité > 0 de la
// commande. Idempotent: les lots déjà présents sont ignorés. Doit tourner
// dans la transaction qui fait passer la commande au statut "completed".
func materializeStock(tx *gorm.DB, order *models.PurchaseOrder) (int, error) {
	ref := invoice.Ref8(order.ID)
	today := time.Now()
	entryDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	created := 0
	for i, item := range order.Items {
		if item.Quantity <= 0 {
			continue
		}

		id := batchID(order.ID, i)

		var count int64
		if err := tx.Model(&models.StockBatch{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		batch := models.StockBatch{
			ID:            id,
			ProductID:     item.ProductID,
			BatchLabel:    fmt.Sprintf("%s-%d", ref, i+1),
			UnitPriceCost: item.UnitPrice,
			Quantity:      item.Quantity,
			EntryDate:     entryDate,
			Version:       1,
		}
		if err := tx.Create(&batch).Error; err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
