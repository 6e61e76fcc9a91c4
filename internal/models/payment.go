package models

import "time"

type ReferenceType string

const (
	ReferenceSale          ReferenceType = "sale"
	ReferencePurchaseOrder ReferenceType = "purchase_order"
)

// Payment: règlement rattaché à une vente ou à une commande fournisseur.
type Payment struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	ReferenceID   string        `gorm:"size:36;index;not null" json:"reference_id"`
	ReferenceType ReferenceType `gorm:"size:20;not null" json:"reference_type"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	Amount        float64       `gorm:"not null" json:"amount"`
	ManagerID     string        `gorm:"size:36;index;not null" json:"manager_id"`
	Status        string        `gorm:"size:20;not null;default:active" json:"status"`
	Version       int           `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
