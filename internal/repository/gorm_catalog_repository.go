package repository

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jperezr21/trendito/internal/models"
)

const searchColumns = "products.id, products.title, products.description, products.price, " +
	"products.image_url, products.product_url, stores.name AS store_name"

// GormCatalogRepository implementa el catálogo sobre Postgres (o SQLite en tests)
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "get connection: %v", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrapf(ErrUnavailable, "ping: %v", err)
	}
	return nil
}

func (r *GormCatalogRepository) Transaction(ctx context.Context, fn func(CatalogRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCatalogRepository{db: tx})
	})
}

// FindStoreByURL busca una tienda por coincidencia exacta de URL
func (r *GormCatalogRepository) FindStoreByURL(ctx context.Context, url string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("url = ?", url).Take(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find store")
	}
	return &store, nil
}

func (r *GormCatalogRepository) CreateStore(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Omit("Products").Create(store).Error; err != nil {
		return errors.Wrap(err, "failed to create store")
	}
	return nil
}

// UpdateStore actualiza nombre y descripción
func (r *GormCatalogRepository) UpdateStore(ctx context.Context, store *models.Store) error {
	result := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", store.ID).
		Updates(map[string]interface{}{
			"name":        store.Name,
			"description": store.Description,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update store")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCatalogRepository) DeleteProductsByStore(ctx context.Context, storeID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.Product{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete products")
	}
	return result.RowsAffected, nil
}

// InsertProducts inserta el lote en una sola sentencia. gorm convierte la
// transacción anidada en un savepoint cuando ya hay una abierta.
func (r *GormCatalogRepository) InsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&products).Error
	})
	if err != nil {
		return errors.Wrapf(err, "failed to insert %d products", len(products))
	}
	return nil
}

// SearchProducts hace la búsqueda por substring en título o descripción
func (r *GormCatalogRepository) SearchProducts(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	// SQLite no tiene ILIKE; su LIKE ya ignora mayúsculas en ASCII
	op := "ILIKE"
	if r.db.Dialector.Name() != "postgres" {
		op = "LIKE"
	}
	where := fmt.Sprintf(`products.title %[1]s ? ESCAPE '\' OR products.description %[1]s ? ESCAPE '\'`, op)
	pattern := containsPattern(query)

	results := make([]models.SearchResult, 0)
	err := r.db.WithContext(ctx).
		Table("products").
		Select(searchColumns).
		Joins("JOIN stores ON stores.id = products.store_id").
		Where(where, pattern, pattern).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to search products")
	}
	return results, nil
}
