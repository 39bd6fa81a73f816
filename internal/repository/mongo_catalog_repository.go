package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jperezr21/trendito/internal/models"
)

const (
	storesCollection   = "stores"
	productsCollection = "products"
)

// MongoCatalogRepository guarda stores y products como colecciones.
// No usa transacciones multi-documento: un servidor standalone no las
// soporta, así que la reindexación es at-least-once.
type MongoCatalogRepository struct {
	stores   *mongo.Collection
	products *mongo.Collection
}

func NewMongoCatalogRepository(db *mongo.Database) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		stores:   db.Collection(storesCollection),
		products: db.Collection(productsCollection),
	}
}

// EnsureIndexes crea los índices únicos de url y (store_id, shopify_id)
func (r *MongoCatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.stores.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create stores index")
	}

	_, err = r.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "store_id", Value: 1}}},
		{
			Keys: bson.D{{Key: "store_id", Value: 1}, {Key: "shopify_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"shopify_id": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create products indexes")
	}
	return nil
}

func (r *MongoCatalogRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := r.stores.Database().Client().Ping(ctx, nil); err != nil {
		return errors.Wrapf(ErrUnavailable, "ping: %v", err)
	}
	return nil
}

// Transaction ejecuta fn directamente sobre el repositorio
func (r *MongoCatalogRepository) Transaction(ctx context.Context, fn func(CatalogRepository) error) error {
	return fn(r)
}

func (r *MongoCatalogRepository) FindStoreByURL(ctx context.Context, url string) (*models.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var store models.Store
	err := r.stores.FindOne(ctx, bson.M{"url": url}).Decode(&store)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find store")
	}
	return &store, nil
}

func (r *MongoCatalogRepository) CreateStore(ctx context.Context, store *models.Store) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if store.ID == "" {
		store.ID = uuid.NewString()
	}
	now := time.Now()
	store.CreatedAt = now
	store.UpdatedAt = now

	if _, err := r.stores.InsertOne(ctx, store); err != nil {
		return errors.Wrap(err, "failed to create store")
	}
	return nil
}

func (r *MongoCatalogRepository) UpdateStore(ctx context.Context, store *models.Store) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store.UpdatedAt = time.Now()
	set := bson.M{"name": store.Name, "updated_at": store.UpdatedAt}
	update := bson.M{"$set": set}
	if store.Description != nil {
		set["description"] = *store.Description
	} else {
		update["$unset"] = bson.M{"description": ""}
	}

	result, err := r.stores.UpdateOne(ctx, bson.M{"_id": store.ID}, update)
	if err != nil {
		return errors.Wrap(err, "failed to update store")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCatalogRepository) DeleteProductsByStore(ctx context.Context, storeID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.products.DeleteMany(ctx, bson.M{"store_id": storeID})
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete products")
	}
	return result.DeletedCount, nil
}

func (r *MongoCatalogRepository) InsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		products[i].CreatedAt = now
		docs = append(docs, products[i])
	}

	if _, err := r.products.InsertMany(ctx, docs); err != nil {
		return errors.Wrapf(err, "failed to insert %d products", len(products))
	}
	return nil
}

func (r *MongoCatalogRepository) SearchProducts(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.products.Aggregate(ctx, searchPipeline(query, limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to search products")
	}
	defer cursor.Close(ctx)

	results := make([]models.SearchResult, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.Wrap(err, "failed to decode search results")
	}
	return results, nil
}

// buildSearchFilter busca el texto literal, sin importar mayúsculas
func buildSearchFilter(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	return bson.M{
		"$or": []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}
}

// searchPipeline hace el join con stores; el límite va después del
// $unwind para que los productos huérfanos no cuenten
func searchPipeline(query string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: buildSearchFilter(query)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         storesCollection,
			"localField":   "store_id",
			"foreignField": "_id",
			"as":           "store",
		}}},
		{{Key: "$unwind", Value: "$store"}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$project", Value: bson.M{
			"_id":         1,
			"title":       1,
			"description": 1,
			"price":       1,
			"image_url":   1,
			"product_url": 1,
			"store_name":  "$store.name",
		}}},
	}
}
