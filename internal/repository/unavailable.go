package repository

import (
	"context"

	"github.com/jperezr21/trendito/internal/models"
)

// Unavailable es el catálogo cuando no hay conexión configurada.
// Todas las operaciones fallan con ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Ping(context.Context) error { return ErrUnavailable }

func (Unavailable) Transaction(context.Context, func(CatalogRepository) error) error {
	return ErrUnavailable
}

func (Unavailable) FindStoreByURL(context.Context, string) (*models.Store, error) {
	return nil, ErrUnavailable
}

func (Unavailable) CreateStore(context.Context, *models.Store) error { return ErrUnavailable }

func (Unavailable) UpdateStore(context.Context, *models.Store) error { return ErrUnavailable }

func (Unavailable) DeleteProductsByStore(context.Context, string) (int64, error) {
	return 0, ErrUnavailable
}

func (Unavailable) InsertProducts(context.Context, []models.Product) error { return ErrUnavailable }

func (Unavailable) SearchProducts(context.Context, string, int) ([]models.SearchResult, error) {
	return nil, ErrUnavailable
}
