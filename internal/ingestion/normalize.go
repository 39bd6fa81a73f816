package ingestion

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jperezr21/trendito/internal/models"
	"github.com/jperezr21/trendito/internal/shopify"
)

var (
	validate   = validator.New()
	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// NormalizeStoreURL recorta espacios, agrega https:// si falta el esquema
// y quita la barra final
func NormalizeStoreURL(raw string) (string, error) {
	storeURL := strings.TrimSpace(raw)
	if storeURL == "" {
		return "", &ValidationError{Field: "url", Message: "url is required"}
	}
	if !strings.HasPrefix(storeURL, "http://") && !strings.HasPrefix(storeURL, "https://") {
		storeURL = "https://" + storeURL
	}
	storeURL = strings.TrimRight(storeURL, "/")

	if err := validate.Var(storeURL, "required,url"); err != nil {
		return "", &ValidationError{Field: "url", Message: "url is not valid"}
	}
	parsed, err := url.Parse(storeURL)
	if err != nil || parsed.Host == "" {
		return "", &ValidationError{Field: "url", Message: "url is not valid"}
	}
	return storeURL, nil
}

// ExtractTextFromHTML quita el marcado y deja el texto plano
func ExtractTextFromHTML(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
	}
	return strings.TrimSpace(doc.Text())
}

// FormatPrice convierte "29.9" en "$29.90". Si el valor no es numérico se
// antepone el símbolo tal cual.
func FormatPrice(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	formatted := "$" + raw
	if amount, err := decimal.NewFromString(raw); err == nil {
		formatted = "$" + amount.StringFixed(2)
	}
	return &formatted
}

// buildProduct normaliza un producto de Shopify. StoreID se asigna al insertar.
func buildProduct(storeURL string, p shopify.Product) models.Product {
	product := models.Product{
		Title:      p.Title,
		ProductURL: storeURL + "/products/" + p.Handle,
	}
	if p.BodyHTML != nil {
		product.Description = ExtractTextFromHTML(*p.BodyHTML)
	}
	if len(p.Variants) > 0 {
		product.Price = FormatPrice(p.Variants[0].Price)
	}
	if len(p.Images) > 0 && p.Images[0].Src != "" {
		src := p.Images[0].Src
		product.ImageURL = &src
	}
	if p.ID != 0 {
		id := strconv.FormatInt(p.ID, 10)
		product.ShopifyID = &id
	}
	return product
}
