package database

import (
	"log"

	"odicam-backend/internal/config"
	"odicam-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Connexion à la base de données impossible: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Erreur AutoMigrate: %v", err)
	}

	log.Println("Base de données connectée, migration terminée.")
}

// Migrate: schéma complet, ordre parents avant enfants.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.StockBatch{},
		&models.Provider{},
		&models.Customer{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payment{},
	)
}
