package dashboard

import (
	"odicam-backend/internal/auth"
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"
	"odicam-backend/internal/view"

	"github.com/gofiber/fiber/v2"
)

type ManagerSummary struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   models.UserRole   `json:"role"`
	Status models.UserStatus `json:"status"`
}

type DashboardResponse struct {
	Products       []models.Product       `json:"products"`
	Batches        []models.StockBatch    `json:"batches"`
	Sales          []models.Sale          `json:"sales"`
	PurchaseOrders []models.PurchaseOrder `json:"purchase_orders"`
	Payments       []models.Payment       `json:"payments"`
	Managers       []ManagerSummary       `json:"managers"`
	Sections       []string               `json:"sections"`
	ShowFinancials bool                   `json:"show_financials"`
}

// GET /api/dashboard
// Agrégat complet, projeté selon le rôle: le staff ne reçoit que ses ventes
// et règlements, jamais les lots ni les commandes fournisseurs.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		projection := view.For(role, userID)

		var resp DashboardResponse

		if err := database.DB.Order("name").Find(&resp.Products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les produits n'ont pas pu être chargés")
		}

		var batches []models.StockBatch
		if err := database.DB.Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les lots n'ont pas pu être chargés")
		}
		resp.Batches = projection.Batches(batches)

		var sales []models.Sale
		if err := database.DB.Preload("Items").Order("initiation_date DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les ventes n'ont pas pu être chargées")
		}
		resp.Sales = projection.FilterSales(sales)

		var orders []models.PurchaseOrder
		if err := database.DB.Preload("Items").Order("initiation_date DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les commandes n'ont pas pu être chargées")
		}
		resp.PurchaseOrders = projection.PurchaseOrders(orders)

		var payments []models.Payment
		if err := database.DB.Order("date DESC").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les règlements n'ont pas pu être chargés")
		}
		resp.Payments = projection.FilterPayments(payments)

		var users []models.User
		if err := database.DB.Order("name").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les utilisateurs n'ont pas pu être chargés")
		}
		resp.Managers = make([]ManagerSummary, 0, len(users))
		for _, u := range users {
			resp.Managers = append(resp.Managers, ManagerSummary{
				ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status,
			})
		}

		resp.Sections = projection.Sections()
		resp.ShowFinancials = projection.ShowFinancials()

		return c.JSON(resp)
	}
}
