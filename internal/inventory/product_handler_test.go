package inventory

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/inventory", ListInventoryHandler())
	app.Post("/inventory/category", CreateCategoryHandler())
	app.Post("/inventory/product", CreateProductHandler())
	app.Put("/inventory/product/:id", UpdateProductHandler())
	app.Delete("/inventory/product/:id", DeleteProductHandler())
	app.Post("/inventory/batch", CreateBatchHandler())
	return app
}

func seedCategory(t *testing.T, db *gorm.DB) models.Category {
	t.Helper()
	category := models.Category{ID: "cat-1", Name: "Boissons", Status: "active", Version: 1}
	require.NoError(t, db.Create(&category).Error)
	return category
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

func TestCreateProductAssignsID(t *testing.T) {
	db := database.InitTest(t)
	category := seedCategory(t, db)
	app := testApp()

	rec := doJSON(t, app, "POST", "/inventory/product", fiber.Map{
		"category_id":     category.ID,
		"name":            "Bissap",
		"base_unit_price": 1500,
	})
	require.Equal(t, fiber.StatusCreated, rec.Code, rec.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, 1, created.Version)
}

func TestNegativePriceRejected(t *testing.T) {
	db := database.InitTest(t)
	category := seedCategory(t, db)
	app := testApp()

	rec := doJSON(t, app, "POST", "/inventory/product", fiber.Map{
		"category_id":     category.ID,
		"name":            "Bissap",
		"base_unit_price": -10,
	})
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestUnknownCategoryRejected(t *testing.T) {
	database.InitTest(t)
	app := testApp()

	rec := doJSON(t, app, "POST", "/inventory/product", fiber.Map{
		"category_id":     "nope",
		"name":            "Bissap",
		"base_unit_price": 100,
	})
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestUpdateProductVersionConflict(t *testing.T) {
	db := database.InitTest(t)
	category := seedCategory(t, db)
	app := testApp()

	product := models.Product{ID: "prod-1", CategoryID: category.ID, Name: "Bissap", BaseUnitPrice: 1500, Status: "active", Version: 1}
	require.NoError(t, db.Create(&product).Error)

	rec := doJSON(t, app, "PUT", "/inventory/product/prod-1", fiber.Map{
		"category_id":     category.ID,
		"name":            "Bissap 1L",
		"base_unit_price": 1600,
		"version":         42,
	})
	assert.Equal(t, fiber.StatusConflict, rec.Code)

	rec = doJSON(t, app, "PUT", "/inventory/product/prod-1", fiber.Map{
		"category_id":     category.ID,
		"name":            "Bissap 1L",
		"base_unit_price": 1600,
		"version":         1,
	})
	require.Equal(t, fiber.StatusOK, rec.Code, rec.Body.String())

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", "prod-1").Error)
	assert.Equal(t, "Bissap 1L", stored.Name)
	assert.Equal(t, 2, stored.Version)
}

func TestNegativeBatchQuantityRejected(t *testing.T) {
	db := database.InitTest(t)
	category := seedCategory(t, db)
	app := testApp()

	product := models.Product{ID: "prod-1", CategoryID: category.ID, Name: "Bissap", BaseUnitPrice: 1500, Status: "active", Version: 1}
	require.NoError(t, db.Create(&product).Error)

	rec := doJSON(t, app, "POST", "/inventory/batch", fiber.Map{
		"product_id": product.ID,
		"quantity":   -5,
		"entry_date": "2026-02-10",
	})
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestListInventoryAggregate(t *testing.T) {
	db := database.InitTest(t)
	category := seedCategory(t, db)
	app := testApp()

	product := models.Product{ID: "prod-1", CategoryID: category.ID, Name: "Bissap", BaseUnitPrice: 1500, Status: "active", Version: 1}
	require.NoError(t, db.Create(&product).Error)

	rec := doJSON(t, app, "GET", "/inventory", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)

	var resp InventoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, 1)
	assert.Len(t, resp.Products, 1)
	assert.Empty(t, resp.Batches)
}
