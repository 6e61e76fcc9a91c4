package sales

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"odicam-backend/internal/auth"
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testApp(userID string, role models.UserRole) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		c.Locals(auth.CtxUserRoleKey, role)
		return c.Next()
	})
	app.Get("/sales", ListSalesHandler())
	app.Post("/sales", CreateSaleHandler())
	app.Put("/sales/:id", UpdateSaleHandler())
	app.Get("/sales/:id/invoice", SaleInvoiceHandler())
	app.Delete("/sales/:id", DeleteSaleHandler())
	return app
}

func seedStock(t *testing.T, db *gorm.DB) (models.Customer, models.Product) {
	t.Helper()

	category := models.Category{ID: "cat-1", Name: "Boissons", Status: "active", Version: 1}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{ID: "prod-1", CategoryID: category.ID, Name: "Bissap", BaseUnitPrice: 1500, Status: "active", Version: 1}
	require.NoError(t, db.Create(&product).Error)

	batches := []models.StockBatch{
		{ID: "sb-1", ProductID: product.ID, BatchLabel: "L1", UnitPriceCost: 1000, Quantity: 6, EntryDate: time.Now(), Version: 1},
		{ID: "sb-2", ProductID: product.ID, BatchLabel: "L2", UnitPriceCost: 1100, Quantity: 4, EntryDate: time.Now(), Version: 1},
	}
	require.NoError(t, db.Create(&batches).Error)

	customer := models.Customer{ID: "cust-1", Name: "Santa Yalla", Status: "active", Version: 1}
	require.NoError(t, db.Create(&customer).Error)

	return customer, product
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	_, err = rec.Body.ReadFrom(resp.Body)
	require.NoError(t, err)
	return rec
}

func TestInsufficientStockRejectedBeforeAnyWrite(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db) // stock total: 10
	app := testApp("mgr-1", models.RoleManager)

	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"customer_id": customer.ID,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 15, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var saleCount, itemCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	require.NoError(t, db.Model(&models.SaleItem{}).Count(&itemCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, itemCount)
}

func TestStockCheckAggregatesAcrossLines(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db) // stock total: 10
	app := testApp("mgr-1", models.RoleManager)

	// Deux lignes de 6 sur le même produit dépassent les 10 disponibles
	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"customer_id": customer.ID,
		"items": []fiber.Map{
			{"product_id": product.ID, "quantity": 6, "unit_price": 1500},
			{"product_id": product.ID, "quantity": 6, "unit_price": 1500},
		},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, rec.Code)
}

func TestSaleCreatedWithDerivedTotals(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db)
	app := testApp("mgr-1", models.RoleManager)

	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"id":          "sale-1",
		"customer_id": customer.ID,
		"amount_paid": 4500,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 3, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusCreated, rec.Code, rec.Body.String())

	var stored models.Sale
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", "sale-1").Error)
	assert.Equal(t, 4500.0, stored.TotalAmount)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "mgr-1", stored.ManagerID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3.0, stored.Items[0].Quantity)
}

func TestUpdateAlsoChecksStock(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db)
	app := testApp("mgr-1", models.RoleManager)

	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"id":          "sale-up",
		"customer_id": customer.ID,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 3, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusCreated, rec.Code)

	rec = doJSON(t, app, "PUT", "/sales/sale-up", fiber.Map{
		"customer_id": customer.ID,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 50, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, rec.Code)

	var stored models.Sale
	require.NoError(t, db.Preload("Items").First(&stored, "id = ?", "sale-up").Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3.0, stored.Items[0].Quantity)
}

func TestStaffListsOnlyOwnSales(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db)

	for _, owner := range []string{"mgr-1", "staff-1"} {
		app := testApp(owner, models.RoleManager)
		rec := doJSON(t, app, "POST", "/sales", fiber.Map{
			"customer_id": customer.ID,
			"items":       []fiber.Map{{"product_id": product.ID, "quantity": 1, "unit_price": 1500}},
		})
		require.Equal(t, fiber.StatusCreated, rec.Code)
	}

	staff := testApp("staff-1", models.RoleStaff)
	rec := doJSON(t, staff, "GET", "/sales", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)

	var listed []models.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "staff-1", listed[0].ManagerID)
}

func TestSaleInvoiceMetadata(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db)
	app := testApp("mgr-1", models.RoleManager)

	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"id":              "8b4b40bb-1c3d-4e5f-8a9b-0c1d2e3f4a5b",
		"customer_id":     customer.ID,
		"initiation_date": "2026-02-10",
		"items":           []fiber.Map{{"product_id": product.ID, "quantity": 2, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, app, "GET", "/sales/8b4b40bb-1c3d-4e5f-8a9b-0c1d2e3f4a5b/invoice", nil)
	require.Equal(t, fiber.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Filename    string `json:"filename"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "odicam_facture_vente_Santa_Yalla_8B4B40BB_2026-02-10.pdf", out.Filename)
	assert.Equal(t, "3 000 FCFA", out.TotalAmount)

	// Le staff ne voit pas les factures des ventes des autres
	staff := testApp("staff-1", models.RoleStaff)
	rec = doJSON(t, staff, "GET", "/sales/8b4b40bb-1c3d-4e5f-8a9b-0c1d2e3f4a5b/invoice", nil)
	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

func TestUnknownCustomerRejected(t *testing.T) {
	db := database.InitTest(t)
	_, product := seedStock(t, db)
	app := testApp("mgr-1", models.RoleManager)

	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"customer_id": "nope",
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 1, "unit_price": 1500}},
	})
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestVersionConflictOnStaleUpdate(t *testing.T) {
	db := database.InitTest(t)
	customer, product := seedStock(t, db)
	app := testApp("mgr-1", models.RoleManager)

	rec := doJSON(t, app, "POST", "/sales", fiber.Map{
		"id":          "sale-v",
		"customer_id": customer.ID,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 2, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusCreated, rec.Code)

	stale := 99
	rec = doJSON(t, app, "PUT", "/sales/sale-v", fiber.Map{
		"customer_id": customer.ID,
		"version":     stale,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 2, "unit_price": 1500}},
	})
	assert.Equal(t, fiber.StatusConflict, rec.Code)

	current := 1
	rec = doJSON(t, app, "PUT", "/sales/sale-v", fiber.Map{
		"customer_id": customer.ID,
		"version":     current,
		"items":       []fiber.Map{{"product_id": product.ID, "quantity": 4, "unit_price": 1500}},
	})
	require.Equal(t, fiber.StatusOK, rec.Code, rec.Body.String())

	var stored models.Sale
	require.NoError(t, db.First(&stored, "id = ?", "sale-v").Error)
	assert.Equal(t, 2, stored.Version)
}
