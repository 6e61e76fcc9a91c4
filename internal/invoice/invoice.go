// Package invoice porte les conventions de présentation des factures:
// montants en FCFA et noms de fichiers d'export PDF. Le rendu PDF lui-même
// est fait ailleurs; seul le nommage est normé ici.
package invoice

import (
	"fmt"
	"strings"

	"odicam-backend/internal/models"
)

// nbsp: séparateur de milliers insécable.
const nbsp = " "

// FormatCurrency: "1 234 567 FCFA" (séparateurs insécables, pas de décimales).
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	// FCFA ne porte pas de centimes
	n := int64(amount + 0.5)
	digits := fmt.Sprintf("%d", n)

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, nbsp) + nbsp + "FCFA"
	if neg {
		out = "-" + out
	}
	return out
}

// stripAccents: ramène les caractères accentués du français à l'ASCII.
func stripAccents(s string) string {
	replacements := map[rune]string{
		'à': "a", 'â': "a", 'ä': "a", 'À': "A", 'Â': "A", 'Ä': "A",
		'ç': "c", 'Ç': "C",
		'é': "e", 'è': "e", 'ê': "e", 'ë': "e", 'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E",
		'î': "i", 'ï': "i", 'Î': "I", 'Ï': "I",
		'ô': "o", 'ö': "o", 'Ô': "O", 'Ö': "O",
		'ù': "u", 'û': "u", 'ü': "u", 'Ù': "U", 'Û': "U", 'Ü': "U",
	}

	var b strings.Builder
	for _, r := range s {
		if repl, ok := replacements[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeName: nom de partenaire sûr pour un nom de fichier. Les accents
// sont retirés, tout le reste est ramené à des underscores.
func SanitizeName(name string) string {
	s := stripAccents(strings.TrimSpace(name))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	return strings.TrimRight(b.String(), "_")
}

// Ref8: les 8 premiers caractères de l'identifiant, en majuscules.
func Ref8(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// NameResolver: résout l'identifiant d'un partenaire en nom affichable.
type NameResolver func(id string) string

// SaleInvoiceFilename: odicam_facture_vente_[CLIENT]_[REF8]_[DATE].pdf
func SaleInvoiceFilename(sale models.Sale, resolve NameResolver) string {
	return fmt.Sprintf("odicam_facture_vente_%s_%s_%s.pdf",
		SanitizeName(resolve(sale.CustomerID)),
		Ref8(sale.ID),
		sale.InitiationDate.Format("2006-01-02"),
	)
}

// PurchaseInvoiceFilename: odicam_facture_achat_[FOURNISSEUR]_[REF8]_[DATE].pdf
func PurchaseInvoiceFilename(order models.PurchaseOrder, resolve NameResolver) string {
	return fmt.Sprintf("odicam_facture_achat_%s_%s_%s.pdf",
		SanitizeName(resolve(order.ProviderID)),
		Ref8(order.ID),
		order.InitiationDate.Format("2006-01-02"),
	)
}
