// Package view centralise les règles de visibilité par rôle: quelles
// sections de navigation, quels enregistrements et quels agrégats chaque
// rôle peut voir. Tous les handlers de lecture passent par ici.
package view

import "odicam-backend/internal/models"

const (
	SectionDashboard   = "dashboard"
	SectionInventory   = "inventory"
	SectionPartners    = "partners"
	SectionSales       = "sales"
	SectionProcurement = "procurement"
	SectionFinance     = "finance"
	SectionAdmin       = "admin"
)

// Projection: vue autorisée pour un utilisateur donné.
type Projection struct {
	Role   models.UserRole
	UserID string
}

func For(role models.UserRole, userID string) Projection {
	return Projection{Role: role, UserID: userID}
}

func (p Projection) isManager() bool {
	return p.Role == models.RoleManager
}

// Sections: navigation accessible. Le staff est limité à ventes + inventaire.
func (p Projection) Sections() []string {
	if p.isManager() {
		return []string{
			SectionDashboard, SectionInventory, SectionPartners,
			SectionSales, SectionProcurement, SectionFinance, SectionAdmin,
		}
	}
	return []string{SectionSales, SectionInventory}
}

// DefaultSection: toute section non autorisée redirige le staff vers les ventes.
func (p Projection) DefaultSection(requested string) string {
	for _, s := range p.Sections() {
		if s == requested {
			return requested
		}
	}
	return SectionSales
}

// FilterSales: le staff ne voit que ses propres ventes.
func (p Projection) FilterSales(sales []models.Sale) []models.Sale {
	if p.isManager() {
		return sales
	}
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if s.ManagerID == p.UserID {
			out = append(out, s)
		}
	}
	return out
}

// FilterPayments: le staff ne voit que les règlements qu'il a saisis.
func (p Projection) FilterPayments(payments []models.Payment) []models.Payment {
	if p.isManager() {
		return payments
	}
	out := make([]models.Payment, 0, len(payments))
	for _, pay := range payments {
		if pay.ManagerID == p.UserID {
			out = append(out, pay)
		}
	}
	return out
}

// Batches: les lots de stock sont masqués au staff dans les agrégats.
func (p Projection) Batches(batches []models.StockBatch) []models.StockBatch {
	if p.isManager() {
		return batches
	}
	return []models.StockBatch{}
}

// PurchaseOrders: les commandes fournisseurs sont masquées au staff.
func (p Projection) PurchaseOrders(orders []models.PurchaseOrder) []models.PurchaseOrder {
	if p.isManager() {
		return orders
	}
	return []models.PurchaseOrder{}
}

// CanDelete: la suppression de partenaires, commandes et ventes est
// réservée aux managers.
func (p Projection) CanDelete() bool {
	return p.isManager()
}

// ShowFinancials: les totaux financiers sont masqués au staff.
func (p Projection) ShowFinancials() bool {
	return p.isManager()
}
