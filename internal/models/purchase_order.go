package models

import "time"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus: payé quand le montant réglé couvre le total.
func DerivePaymentStatus(amountPaid, totalAmount float64) PaymentStatus {
	switch {
	case amountPaid <= 0:
		return PaymentStatusUnpaid
	case amountPaid >= totalAmount:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}

// PurchaseOrder: commande fournisseur. Le passage au statut "completed"
// matérialise un StockBatch par ligne; ce statut est définitif.
type PurchaseOrder struct {
	ID               string        `gorm:"primaryKey;size:36" json:"id"`
	ProviderID       string        `gorm:"size:36;index;not null" json:"provider_id"`
	ManagerID        string        `gorm:"size:36;index;not null" json:"manager_id"`
	InitiationDate   time.Time     `gorm:"index;not null" json:"initiation_date"`
	FinalizationDate *time.Time    `json:"finalization_date"`
	TotalAmount      float64       `gorm:"not null" json:"total_amount"`
	AmountPaid       float64       `gorm:"not null" json:"amount_paid"`
	PaymentStatus    PaymentStatus `gorm:"size:20;not null;default:unpaid" json:"payment_status"`
	Status           OrderStatus   `gorm:"size:20;not null;default:draft" json:"status"`
	Version          int           `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Items []PurchaseOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type PurchaseOrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   string  `gorm:"size:36;index;not null" json:"order_id"`
	ProductID string  `gorm:"size:36;index;not null" json:"product_id"`
	Quantity  float64 `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
}
