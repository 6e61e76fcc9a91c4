package models

import "time"

// Sale: vente client. La quantité demandée par ligne est validée contre le
// stock agrégé (somme des lots du produit) avant toute écriture.
type Sale struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	CustomerID     string        `gorm:"size:36;index;not null" json:"customer_id"`
	ManagerID      string        `gorm:"size:36;index;not null" json:"manager_id"`
	InitiationDate time.Time     `gorm:"index;not null" json:"initiation_date"`
	TotalAmount    float64       `gorm:"not null" json:"total_amount"`
	AmountPaid     float64       `gorm:"not null" json:"amount_paid"`
	PaymentStatus  PaymentStatus `gorm:"size:20;not null;default:unpaid" json:"payment_status"`
	Status         OrderStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	Version        int           `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
}

type SaleItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    string  `gorm:"size:36;index;not null" json:"sale_id"`
	ProductID string  `gorm:"size:36;index;not null" json:"product_id"`
	Quantity  float64 `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
}
