package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/jperezr21/trendito/internal/models"
)

var (
	// ErrNotFound se devuelve cuando no existe la tienda buscada
	ErrNotFound = errors.New("store not found")
	// ErrUnavailable indica que el catálogo no está configurado o no responde
	ErrUnavailable = errors.New("catalog store unavailable")
)

// CatalogRepository es la superficie de lectura/escritura sobre stores y products
type CatalogRepository interface {
	Ping(ctx context.Context) error
	// Transaction ejecuta fn sobre un repositorio transaccional. Si fn
	// devuelve error todo se revierte.
	Transaction(ctx context.Context, fn func(CatalogRepository) error) error
	FindStoreByURL(ctx context.Context, url string) (*models.Store, error)
	CreateStore(ctx context.Context, store *models.Store) error
	UpdateStore(ctx context.Context, store *models.Store) error
	DeleteProductsByStore(ctx context.Context, storeID string) (int64, error)
	// InsertProducts inserta un lote. Dentro de una transacción el lote
	// queda aislado: si falla no invalida el resto.
	InsertProducts(ctx context.Context, products []models.Product) error
	SearchProducts(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern arma el patrón %q% escapando los comodines de LIKE
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
