package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jperezr21/trendito/internal/shopify"
)

func TestNormalizeStoreURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tienda.myshopify.com", "https://tienda.myshopify.com"},
		{"  https://www.ejemplo.com/  ", "https://www.ejemplo.com"},
		{"http://tienda.ejemplo.co", "http://tienda.ejemplo.co"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeStoreURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeStoreURLRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "https://", "not a url"} {
		t.Run(in, func(t *testing.T) {
			_, err := NormalizeStoreURL(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "url", verr.Field)
		})
	}

	_, err := NormalizeStoreURL("")
	assert.EqualError(t, err, "url is required")
}

func TestExtractTextFromHTML(t *testing.T) {
	assert.Equal(t, "Hello World", ExtractTextFromHTML("<p>Hello <b>World</b></p>"))
	assert.Equal(t, "", ExtractTextFromHTML(""))
	assert.Equal(t, "", ExtractTextFromHTML("   "))
	assert.Equal(t, "texto plano", ExtractTextFromHTML("  texto plano "))
	assert.Equal(t, "Algodón 100%", ExtractTextFromHTML("<div><span>Algodón</span> 100%</div>"))
}

func TestFormatPrice(t *testing.T) {
	require.NotNil(t, FormatPrice("29.9"))
	assert.Equal(t, "$29.90", *FormatPrice("29.9"))
	assert.Equal(t, "$120.00", *FormatPrice("120"))
	assert.Equal(t, "$gratis", *FormatPrice("gratis"))
	assert.Nil(t, FormatPrice(""))
	assert.Nil(t, FormatPrice("  "))
}

func TestBuildProduct(t *testing.T) {
	body := "<p>Vestido <strong>rojo</strong></p>"
	product := buildProduct("https://moda.example.com", shopify.Product{
		ID:       987654321,
		Title:    "Vestido",
		BodyHTML: &body,
		Handle:   "vestido-rojo",
		Images:   []shopify.Image{{Src: "https://cdn.example.com/a.jpg"}, {Src: "https://cdn.example.com/b.jpg"}},
		Variants: []shopify.Variant{{Price: "49.50"}, {Price: "59.50"}},
	})

	assert.Equal(t, "Vestido", product.Title)
	assert.Equal(t, "Vestido rojo", product.Description)
	assert.Equal(t, "https://moda.example.com/products/vestido-rojo", product.ProductURL)
	require.NotNil(t, product.Price)
	assert.Equal(t, "$49.50", *product.Price)
	require.NotNil(t, product.ImageURL)
	assert.Equal(t, "https://cdn.example.com/a.jpg", *product.ImageURL)
	require.NotNil(t, product.ShopifyID)
	assert.Equal(t, "987654321", *product.ShopifyID)
	assert.Empty(t, product.StoreID)
}

func TestBuildProductWithoutOptionalFields(t *testing.T) {
	product := buildProduct("https://moda.example.com", shopify.Product{ID: 1, Title: "Bolso", Handle: "bolso"})

	assert.Equal(t, "", product.Description)
	assert.Nil(t, product.Price)
	assert.Nil(t, product.ImageURL)
}
