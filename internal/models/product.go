package models

import "time"

type Product struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CategoryID    string    `gorm:"size:36;index;not null" json:"category_id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Description   string    `gorm:"size:255" json:"description"`
	BaseUnitPrice float64   `gorm:"not null" json:"base_unit_price"`
	Status        string    `gorm:"size:20;not null;default:active" json:"status"`
	Version       int       `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
