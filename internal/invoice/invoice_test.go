package invoice

import (
	"strings"
	"testing"
	"time"

	"odicam-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1 234 567 FCFA", FormatCurrency(1234567))
	assert.Equal(t, "0 FCFA", FormatCurrency(0))
	assert.Equal(t, "999 FCFA", FormatCurrency(999))
	assert.Equal(t, "1 000 FCFA", FormatCurrency(1000))
	assert.Equal(t, "-12 500 FCFA", FormatCurrency(-12500))
	// FCFA sans centimes: arrondi à l'entier le plus proche
	assert.Equal(t, "1 500 FCFA", FormatCurrency(1499.6))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Restaurant_Le_Baobab", SanitizeName("Restaurant Le Baobab"))
	assert.Equal(t, "Boutique_Teranga", SanitizeName("Boutique Téranga"))
	assert.Equal(t, "Cafe_de_l_Etoile", SanitizeName("  Café de l'Étoile !! "))
	assert.Equal(t, "", SanitizeName("***"))
}

func TestRef8(t *testing.T) {
	assert.Equal(t, "8B4B40BB", Ref8("8b4b40bb-1c3d-4e5f-8a9b-0c1d2e3f4a5b"))
	assert.Equal(t, "ABC", Ref8("abc"))
}

func TestSaleInvoiceFilename(t *testing.T) {
	sale := models.Sale{
		ID:             "8b4b40bb-1c3d-4e5f-8a9b-0c1d2e3f4a5b",
		CustomerID:     "cust3",
		InitiationDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	resolve := func(id string) string {
		if id == "cust3" {
			return "Kiosque Téranga"
		}
		return id
	}

	name := SaleInvoiceFilename(sale, resolve)

	assert.True(t, strings.HasPrefix(name, "odicam_facture_vente_"), name)
	assert.Contains(t, name, "Kiosque_Teranga")
	assert.Contains(t, name, "8B4B40BB")
	assert.Contains(t, name, "2026-02-10")
	assert.True(t, strings.HasSuffix(name, ".pdf"), name)
}

func TestPurchaseInvoiceFilename(t *testing.T) {
	order := models.PurchaseOrder{
		ID:             "c0ffee00-0000-4000-8000-000000000001",
		ProviderID:     "prov1",
		InitiationDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	resolve := func(string) string { return "SODIS Distribution" }

	name := PurchaseInvoiceFilename(order, resolve)

	assert.Equal(t, "odicam_facture_achat_SODIS_Distribution_C0FFEE00_2026-01-10.pdf", name)
}
