package ingestion

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/metrics"
	"github.com/jperezr21/trendito/internal/models"
	"github.com/jperezr21/trendito/internal/repository"
	"github.com/jperezr21/trendito/internal/shopify"
)

const DefaultBatchSize = 50

// Source es la tienda de origen (Shopify)
type Source interface {
	FetchMeta(ctx context.Context, baseURL string) (*shopify.Meta, error)
	FetchProducts(ctx context.Context, baseURL string) ([]shopify.Product, error)
}

// Result resume una indexación. ProductsCount < TotalProducts indica que
// algún lote se descartó.
type Result struct {
	Store         models.StoreSummary
	ProductsCount int
	TotalProducts int
	FailedBatches int
}

type Pipeline struct {
	catalog   repository.CatalogRepository
	source    Source
	logger    *zap.Logger
	batchSize int
}

func NewPipeline(catalog repository.CatalogRepository, source Source, logger *zap.Logger, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		catalog:   catalog,
		source:    source,
		logger:    logger,
		batchSize: batchSize,
	}
}

// IndexStore descarga metadatos y productos de la tienda y reemplaza su
// catálogo. La actualización de la tienda, el borrado y los lotes corren en
// una sola transacción; cada lote fallido se revierte solo y se sigue.
func (p *Pipeline) IndexStore(ctx context.Context, rawURL string) (*Result, error) {
	storeURL, err := NormalizeStoreURL(rawURL)
	if err != nil {
		metrics.IngestionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := p.catalog.Ping(ctx); err != nil {
		metrics.IngestionsTotal.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	logger := p.logger.With(zap.String("store_url", storeURL))
	logger.Info("starting store indexing")
	start := time.Now()

	meta, err := p.source.FetchMeta(ctx, storeURL)
	if err != nil {
		logger.Error("failed to fetch store metadata", zap.Error(err))
		metrics.IngestionsTotal.WithLabelValues("source_error").Inc()
		return nil, &SourceError{Resource: ResourceMetadata, Err: err}
	}

	shopProducts, err := p.source.FetchProducts(ctx, storeURL)
	if err != nil {
		logger.Error("failed to fetch store products", zap.Error(err))
		metrics.IngestionsTotal.WithLabelValues("source_error").Inc()
		return nil, &SourceError{Resource: ResourceProducts, Err: err}
	}

	products := make([]models.Product, 0, len(shopProducts))
	for _, sp := range shopProducts {
		products = append(products, buildProduct(storeURL, sp))
	}
	metrics.ProductsFetched.Add(float64(len(products)))

	result := &Result{
		Store:         models.StoreSummary{Name: meta.Shop.Name, URL: storeURL},
		TotalProducts: len(products),
	}

	err = p.catalog.Transaction(ctx, func(catalog repository.CatalogRepository) error {
		store, err := p.upsertStore(ctx, catalog, storeURL, meta.Shop)
		if err != nil {
			return err
		}
		result.ProductsCount, result.FailedBatches, err = p.insertBatches(ctx, catalog, logger, store.ID, products)
		return err
	})
	if err != nil {
		logger.Error("store indexing failed", zap.Error(err))
		metrics.IngestionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	outcome := "success"
	if result.ProductsCount < result.TotalProducts {
		outcome = "partial"
	}
	metrics.IngestionsTotal.WithLabelValues(outcome).Inc()
	metrics.ProductsInserted.Add(float64(result.ProductsCount))

	logger.Info("store indexing completed",
		zap.Int("inserted", result.ProductsCount),
		zap.Int("total", result.TotalProducts),
		zap.Int("failed_batches", result.FailedBatches),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// upsertStore crea la tienda o actualiza la existente y borra sus productos
func (p *Pipeline) upsertStore(ctx context.Context, catalog repository.CatalogRepository, storeURL string, shop shopify.Shop) (*models.Store, error) {
	var description *string
	if shop.Description != nil && *shop.Description != "" {
		description = shop.Description
	}

	store, err := catalog.FindStoreByURL(ctx, storeURL)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		store = &models.Store{Name: shop.Name, URL: storeURL, Description: description}
		if err := catalog.CreateStore(ctx, store); err != nil {
			return nil, err
		}
		return store, nil
	case err != nil:
		return nil, err
	}

	store.Name = shop.Name
	store.Description = description
	if err := catalog.UpdateStore(ctx, store); err != nil {
		return nil, err
	}
	deleted, err := catalog.DeleteProductsByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("removed previous products", zap.String("store_id", store.ID), zap.Int64("deleted", deleted))
	return store, nil
}

// insertBatches inserta de a batchSize productos. Un lote que falla se
// registra y se salta; solo la cancelación del contexto aborta.
func (p *Pipeline) insertBatches(ctx context.Context, catalog repository.CatalogRepository, logger *zap.Logger, storeID string, products []models.Product) (inserted, failed int, err error) {
	for i := range products {
		products[i].StoreID = storeID
	}

	for start := 0; start < len(products); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return inserted, failed, errors.Wrap(err, "indexing interrupted")
		}

		end := min(start+p.batchSize, len(products))
		batch := products[start:end]
		if err := catalog.InsertProducts(ctx, batch); err != nil {
			failed++
			metrics.FailedBatches.Inc()
			logger.Warn("skipping product batch",
				zap.Int("batch", start/p.batchSize),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			continue
		}

		inserted += len(batch)
		logger.Info("inserted products", zap.Int("inserted", inserted), zap.Int("total", len(products)))
	}
	return inserted, failed, nil
}
