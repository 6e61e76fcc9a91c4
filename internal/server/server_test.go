package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"odicam-backend/internal/config"
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"
	"odicam-backend/internal/seed"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort:         "8080",
		JWTSecret:        strings.Repeat("s", 32),
		CORSOrigins:      "http://localhost:5173",
		SeedDemoPassword: "demo-pass",
	}
}

func setup(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()
	database.InitTest(t)
	cfg := testConfig()
	return New(cfg), cfg
}

func do(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func seedAndLogin(t *testing.T, app *fiber.App, cfg *config.Config, email string) string {
	t.Helper()

	resp, raw := do(t, app, "POST", "/api/seed", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	resp, raw = do(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": cfg.SeedDemoPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealthIsPublic(t *testing.T) {
	app, _ := setup(t)

	resp, _ := do(t, app, "GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMissingTokenRejected(t *testing.T) {
	app, _ := setup(t)

	for _, path := range []string{"/api/inventory", "/api/sales", "/api/dashboard", "/api/finance"} {
		resp, _ := do(t, app, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	app, _ := setup(t)

	resp, _ := do(t, app, "GET", "/api/inventory", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSeedIsIdempotentWithoutForce(t *testing.T) {
	app, _ := setup(t)
	db := database.DB

	resp, raw := do(t, app, "POST", "/api/seed", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var first struct {
		Seeded bool `json:"seeded"`
	}
	require.NoError(t, json.Unmarshal(raw, &first))
	assert.True(t, first.Seeded)

	var countAfterFirst int64
	require.NoError(t, db.Model(&models.Product{}).Count(&countAfterFirst).Error)
	require.Positive(t, countAfterFirst)

	// Rejouer sans force: aucun doublon
	resp, raw = do(t, app, "POST", "/api/seed", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var second struct {
		Seeded bool `json:"seeded"`
	}
	require.NoError(t, json.Unmarshal(raw, &second))
	assert.False(t, second.Seeded)

	var countAfterSecond int64
	require.NoError(t, db.Model(&models.Product{}).Count(&countAfterSecond).Error)
	assert.Equal(t, countAfterFirst, countAfterSecond)

	// force=true réinitialise
	resp, raw = do(t, app, "POST", "/api/seed?force=true", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &first))
	assert.True(t, first.Seeded)

	var countAfterForce int64
	require.NoError(t, db.Model(&models.Product{}).Count(&countAfterForce).Error)
	assert.Equal(t, countAfterFirst, countAfterForce)
}

func TestAdminRoutesRequireManager(t *testing.T) {
	app, cfg := setup(t)

	staffToken := seedAndLogin(t, app, cfg, seed.DemoStaffEmail)
	resp, _ := do(t, app, "GET", "/api/admin", staffToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	managerToken := seedAndLogin(t, app, cfg, seed.DemoManagerEmail)
	resp, raw := do(t, app, "GET", "/api/admin", managerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password_hash")
	}
}

func TestStaffDashboardProjection(t *testing.T) {
	app, cfg := setup(t)
	token := seedAndLogin(t, app, cfg, seed.DemoStaffEmail)

	resp, raw := do(t, app, "GET", "/api/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var out struct {
		Batches        []models.StockBatch    `json:"batches"`
		PurchaseOrders []models.PurchaseOrder `json:"purchase_orders"`
		Sales          []models.Sale          `json:"sales"`
		ShowFinancials bool                   `json:"show_financials"`
		Sections       []string               `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Empty(t, out.Batches)
	assert.Empty(t, out.PurchaseOrders)
	require.Len(t, out.Sales, 1)
	assert.Equal(t, seed.DemoStaffID, out.Sales[0].ManagerID)
	assert.False(t, out.ShowFinancials)
	assert.ElementsMatch(t, []string{"sales", "inventory"}, out.Sections)
}

func TestManagerDashboardUnrestricted(t *testing.T) {
	app, cfg := setup(t)
	token := seedAndLogin(t, app, cfg, seed.DemoManagerEmail)

	resp, raw := do(t, app, "GET", "/api/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var out struct {
		Batches        []models.StockBatch    `json:"batches"`
		PurchaseOrders []models.PurchaseOrder `json:"purchase_orders"`
		Sales          []models.Sale          `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Len(t, out.Batches, 3)
	assert.Len(t, out.PurchaseOrders, 2)
	assert.Len(t, out.Sales, 2)
}

func TestStaffCannotDelete(t *testing.T) {
	app, cfg := setup(t)
	token := seedAndLogin(t, app, cfg, seed.DemoStaffEmail)

	paths := []string{
		"/api/sales/sale-001-0000-4000-8000-000000000001",
		"/api/procurement/po-0002-0000-4000-8000-000000000002",
		"/api/partners/customer/cust-001-0000-4000-8000-000000000001",
		"/api/partners/provider/prov-001-0000-4000-8000-000000000001",
	}
	for _, path := range paths {
		resp, _ := do(t, app, "DELETE", path, token, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}
}

func TestBannedUserCannotLogIn(t *testing.T) {
	app, cfg := setup(t)
	managerToken := seedAndLogin(t, app, cfg, seed.DemoManagerEmail)

	resp, raw := do(t, app, "POST", "/api/admin/user/"+seed.DemoStaffID+"/ban", managerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	resp, _ = do(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email":    seed.DemoStaffEmail,
		"password": cfg.SeedDemoPassword,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestManagerCannotBanSelf(t *testing.T) {
	app, cfg := setup(t)
	token := seedAndLogin(t, app, cfg, seed.DemoManagerEmail)

	resp, _ := do(t, app, "POST", "/api/admin/user/"+seed.DemoManagerID+"/ban", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/admin/user/"+seed.DemoManagerID, token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInventoryExportIsXLSX(t *testing.T) {
	app, cfg := setup(t)
	token := seedAndLogin(t, app, cfg, seed.DemoManagerEmail)

	resp, raw := do(t, app, "GET", "/api/inventory/export", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, raw)
}

func TestMeReturnsIdentity(t *testing.T) {
	app, cfg := setup(t)
	token := seedAndLogin(t, app, cfg, seed.DemoManagerEmail)

	resp, raw := do(t, app, "GET", "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, seed.DemoManagerEmail, out["email"])
	assert.Equal(t, string(models.RoleManager), out["role"])
}
