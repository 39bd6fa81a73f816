package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store es una tienda externa identificada por su URL base
type Store struct {
	ID          string    `json:"id" bson:"_id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" bson:"name" gorm:"type:text;not null"`
	URL         string    `json:"url" bson:"url" gorm:"column:url;type:text;not null;uniqueIndex"`
	Description *string   `json:"description" bson:"description,omitempty" gorm:"type:text"`
	Products    []Product `json:"-" bson:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func (s *Store) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StoreSummary es la vista resumida que se devuelve tras indexar
type StoreSummary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
