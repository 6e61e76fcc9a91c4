package view

import (
	"testing"

	"odicam-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleSales() []models.Sale {
	return []models.Sale{
		{ID: "s1", ManagerID: "u1"},
		{ID: "s2", ManagerID: "u2"},
		{ID: "s3", ManagerID: "u1"},
	}
}

func TestManagerSeesEverything(t *testing.T) {
	p := For(models.RoleManager, "u1")

	assert.Len(t, p.FilterSales(sampleSales()), 3)
	assert.Len(t, p.Batches([]models.StockBatch{{ID: "b1"}}), 1)
	assert.Len(t, p.PurchaseOrders([]models.PurchaseOrder{{ID: "po1"}}), 1)
	assert.True(t, p.CanDelete())
	assert.True(t, p.ShowFinancials())
	assert.Contains(t, p.Sections(), SectionAdmin)
	assert.Equal(t, SectionFinance, p.DefaultSection(SectionFinance))
}

func TestStaffSeesOnlyOwnSales(t *testing.T) {
	p := For(models.RoleStaff, "u1")

	filtered := p.FilterSales(sampleSales())
	assert.Len(t, filtered, 2)
	for _, s := range filtered {
		assert.Equal(t, "u1", s.ManagerID)
	}
}

func TestStaffAggregatesAreMasked(t *testing.T) {
	p := For(models.RoleStaff, "u1")

	assert.Empty(t, p.Batches([]models.StockBatch{{ID: "b1"}, {ID: "b2"}}))
	assert.Empty(t, p.PurchaseOrders([]models.PurchaseOrder{{ID: "po1"}}))
	assert.False(t, p.CanDelete())
	assert.False(t, p.ShowFinancials())
}

func TestStaffNavigationRestricted(t *testing.T) {
	p := For(models.RoleStaff, "u1")

	assert.ElementsMatch(t, []string{SectionSales, SectionInventory}, p.Sections())
	assert.Equal(t, SectionSales, p.DefaultSection(SectionProcurement))
	assert.Equal(t, SectionSales, p.DefaultSection(SectionAdmin))
	assert.Equal(t, SectionInventory, p.DefaultSection(SectionInventory))
}

func TestStaffPaymentsFiltered(t *testing.T) {
	p := For(models.RoleStaff, "u2")

	payments := []models.Payment{
		{ID: "p1", ManagerID: "u1"},
		{ID: "p2", ManagerID: "u2"},
	}
	filtered := p.FilterPayments(payments)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "p2", filtered[0].ID)
}
