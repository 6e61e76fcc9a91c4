package inventory

import (
	"fmt"
	"log"
	"time"

	"odicam-backend/internal/database"
	"odicam-backend/internal/invoice"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/inventory/export
// Exporte l'inventaire complet (catégories, produits, lots) en classeur xlsx.
func ExportInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		var products []models.Product
		var batches []models.StockBatch

		if err := database.DB.Order("name").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les catégories n'ont pas pu être chargées")
		}
		if err := database.DB.Order("name").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les produits n'ont pas pu être chargés")
		}
		if err := database.DB.Order("entry_date DESC").Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les lots n'ont pas pu être chargés")
		}

		categoryNames := make(map[string]string, len(categories))
		for _, cat := range categories {
			categoryNames[cat.ID] = cat.Name
		}
		productNames := make(map[string]string, len(products))
		for _, p := range products {
			productNames[p.ID] = p.Name
		}

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("fermeture du classeur: %v", err)
			}
		}()

		f.SetSheetName("Sheet1", "Categories")
		writeRow(f, "Categories", 1, "ID", "Nom", "Description", "Statut")
		for i, cat := range categories {
			writeRow(f, "Categories", i+2, cat.ID, cat.Name, cat.Description, cat.Status)
		}

		f.NewSheet("Produits")
		writeRow(f, "Produits", 1, "ID", "Catégorie", "Nom", "Prix unitaire", "Statut")
		for i, p := range products {
			writeRow(f, "Produits", i+2, p.ID, categoryNames[p.CategoryID], p.Name,
				invoice.FormatCurrency(p.BaseUnitPrice), p.Status)
		}

		f.NewSheet("Lots")
		writeRow(f, "Lots", 1, "ID", "Produit", "Libellé", "Quantité", "Coût unitaire", "Date d'entrée")
		for i, b := range batches {
			writeRow(f, "Lots", i+2, b.ID, productNames[b.ProductID], b.BatchLabel,
				b.Quantity, invoice.FormatCurrency(b.UnitPriceCost), b.EntryDate.Format("2006-01-02"))
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le classeur n'a pas pu être généré")
		}

		filename := fmt.Sprintf("odicam_inventaire_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			log.Printf("écriture cellule %s!%s: %v", sheet, cell, err)
		}
	}
}
