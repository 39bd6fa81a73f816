package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product representa un producto indexado desde una tienda Shopify
type Product struct {
	ID          string    `json:"id" bson:"_id" gorm:"type:uuid;primaryKey"`
	StoreID     string    `json:"storeId" bson:"store_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_products_store_shopify,priority:1"`
	Title       string    `json:"title" bson:"title" gorm:"type:text;not null"`
	Description string    `json:"description" bson:"description" gorm:"type:text"`
	Price       *string   `json:"price" bson:"price,omitempty" gorm:"type:text"`
	ImageURL    *string   `json:"imageUrl" bson:"image_url,omitempty" gorm:"column:image_url;type:text"`
	ProductURL  string    `json:"productUrl" bson:"product_url" gorm:"column:product_url;type:text;not null"`
	ShopifyID   *string   `json:"shopifyId" bson:"shopify_id,omitempty" gorm:"column:shopify_id;type:text;uniqueIndex:idx_products_store_shopify,priority:2"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SearchResult es la fila que devuelve la búsqueda: producto + nombre de tienda
type SearchResult struct {
	ID          string  `json:"id" bson:"_id"`
	Title       string  `json:"title" bson:"title"`
	Description *string `json:"description" bson:"description"`
	Price       *string `json:"price" bson:"price"`
	ImageURL    *string `json:"imageUrl" bson:"image_url" gorm:"column:image_url"`
	ProductURL  string  `json:"productUrl" bson:"product_url" gorm:"column:product_url"`
	StoreName   string  `json:"storeName" bson:"store_name" gorm:"column:store_name"`
}
