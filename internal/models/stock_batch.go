package models

import "time"

// StockBatch: un lot de stock entré pour un produit (à la réception d'une
// commande fournisseur ou saisi à la main).
type StockBatch struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ProductID     string    `gorm:"size:36;index;not null" json:"product_id"`
	BatchLabel    string    `gorm:"size:50" json:"batch_label"`
	UnitPriceCost float64   `gorm:"not null" json:"unit_price_cost"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	EntryDate     time.Time `gorm:"index;not null" json:"entry_date"`
	Version       int       `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
