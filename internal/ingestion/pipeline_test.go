package ingestion

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/models"
	"github.com/jperezr21/trendito/internal/repository"
	"github.com/jperezr21/trendito/internal/shopify"
)

// memCatalog es un catálogo en memoria que registra las llamadas
type memCatalog struct {
	stores       map[string]*models.Store
	products     map[string][]models.Product
	batchSizes   []int
	failBatch    map[int]bool
	searchCalls  int
	transactions int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		stores:    map[string]*models.Store{},
		products:  map[string][]models.Product{},
		failBatch: map[int]bool{},
	}
}

func (m *memCatalog) Ping(context.Context) error { return nil }

func (m *memCatalog) Transaction(_ context.Context, fn func(repository.CatalogRepository) error) error {
	m.transactions++
	return fn(m)
}

func (m *memCatalog) FindStoreByURL(_ context.Context, url string) (*models.Store, error) {
	store, ok := m.stores[url]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *store
	return &copied, nil
}

func (m *memCatalog) CreateStore(_ context.Context, store *models.Store) error {
	store.ID = uuid.NewString()
	copied := *store
	m.stores[store.URL] = &copied
	return nil
}

func (m *memCatalog) UpdateStore(_ context.Context, store *models.Store) error {
	existing, ok := m.stores[store.URL]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = store.Name
	existing.Description = store.Description
	return nil
}

func (m *memCatalog) DeleteProductsByStore(_ context.Context, storeID string) (int64, error) {
	n := len(m.products[storeID])
	delete(m.products, storeID)
	return int64(n), nil
}

func (m *memCatalog) InsertProducts(_ context.Context, products []models.Product) error {
	index := len(m.batchSizes)
	m.batchSizes = append(m.batchSizes, len(products))
	if m.failBatch[index] {
		return errors.New("insert failed")
	}
	for _, p := range products {
		m.products[p.StoreID] = append(m.products[p.StoreID], p)
	}
	return nil
}

func (m *memCatalog) SearchProducts(context.Context, string, int) ([]models.SearchResult, error) {
	m.searchCalls++
	return nil, nil
}

type fakeSource struct {
	meta        *shopify.Meta
	products    []shopify.Product
	metaErr     error
	productsErr error
	calls       []string
}

func (f *fakeSource) FetchMeta(_ context.Context, baseURL string) (*shopify.Meta, error) {
	f.calls = append(f.calls, baseURL+shopify.MetaPath)
	return f.meta, f.metaErr
}

func (f *fakeSource) FetchProducts(_ context.Context, baseURL string) ([]shopify.Product, error) {
	f.calls = append(f.calls, baseURL+shopify.ProductsPath)
	return f.products, f.productsErr
}

func shopProducts(n int, prefix string) []shopify.Product {
	products := make([]shopify.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, shopify.Product{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("%s %d", prefix, i),
			Handle:   fmt.Sprintf("%s-%d", prefix, i),
			Variants: []shopify.Variant{{Price: "10"}},
		})
	}
	return products
}

func newSource(n int) *fakeSource {
	return &fakeSource{
		meta:     &shopify.Meta{Shop: shopify.Shop{Name: "Moda"}},
		products: shopProducts(n, "producto"),
	}
}

func TestIndexStoreCreatesStoreAndProducts(t *testing.T) {
	catalog := newMemCatalog()
	source := newSource(3)
	pipeline := NewPipeline(catalog, source, zap.NewNop(), 0)

	result, err := pipeline.IndexStore(context.Background(), " moda.example.com/ ")
	require.NoError(t, err)

	assert.Equal(t, "Moda", result.Store.Name)
	assert.Equal(t, "https://moda.example.com", result.Store.URL)
	assert.Equal(t, 3, result.ProductsCount)
	assert.Equal(t, 3, result.TotalProducts)
	assert.Equal(t, []string{
		"https://moda.example.com/meta.json",
		"https://moda.example.com/collections/all/products.json",
	}, source.calls)

	store := catalog.stores["https://moda.example.com"]
	require.NotNil(t, store)
	require.Len(t, catalog.products[store.ID], 3)
	assert.Equal(t, "https://moda.example.com/products/producto-0", catalog.products[store.ID][0].ProductURL)
	assert.Equal(t, 1, catalog.transactions)
}

func TestIndexStoreBatchCount(t *testing.T) {
	tests := []struct {
		products int
		batches  []int
	}{
		{0, nil},
		{1, []int{1}},
		{50, []int{50}},
		{51, []int{50, 1}},
		{120, []int{50, 50, 20}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d products", tt.products), func(t *testing.T) {
			catalog := newMemCatalog()
			pipeline := NewPipeline(catalog, newSource(tt.products), zap.NewNop(), DefaultBatchSize)

			result, err := pipeline.IndexStore(context.Background(), "https://moda.example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.batches, catalog.batchSizes)
			assert.Equal(t, tt.products, result.ProductsCount)
		})
	}
}

func TestIndexStoreSkipsFailedBatch(t *testing.T) {
	catalog := newMemCatalog()
	catalog.failBatch[1] = true
	pipeline := NewPipeline(catalog, newSource(120), zap.NewNop(), DefaultBatchSize)

	result, err := pipeline.IndexStore(context.Background(), "https://moda.example.com")
	require.NoError(t, err)

	assert.Equal(t, 120, result.TotalProducts)
	assert.Equal(t, 70, result.ProductsCount)
	assert.Equal(t, 1, result.FailedBatches)
	assert.Len(t, catalog.batchSizes, 3)
}

func TestIndexStoreReplacesProductsOnReindex(t *testing.T) {
	catalog := newMemCatalog()
	pipeline := NewPipeline(catalog, newSource(5), zap.NewNop(), DefaultBatchSize)
	ctx := context.Background()

	_, err := pipeline.IndexStore(ctx, "https://moda.example.com")
	require.NoError(t, err)

	description := "Nueva temporada"
	pipeline.source = &fakeSource{
		meta:     &shopify.Meta{Shop: shopify.Shop{Name: "Moda 2", Description: &description}},
		products: shopProducts(2, "nuevo"),
	}
	result, err := pipeline.IndexStore(ctx, "https://moda.example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProductsCount)

	require.Len(t, catalog.stores, 1)
	store := catalog.stores["https://moda.example.com"]
	assert.Equal(t, "Moda 2", store.Name)
	require.NotNil(t, store.Description)
	assert.Equal(t, "Nueva temporada", *store.Description)

	products := catalog.products[store.ID]
	require.Len(t, products, 2)
	assert.Equal(t, "nuevo 0", products[0].Title)
}

func TestIndexStoreValidationError(t *testing.T) {
	catalog := newMemCatalog()
	source := newSource(1)
	pipeline := NewPipeline(catalog, source, zap.NewNop(), DefaultBatchSize)

	_, err := pipeline.IndexStore(context.Background(), "  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, source.calls)
}

func TestIndexStoreUnavailableCatalogSkipsFetch(t *testing.T) {
	source := newSource(1)
	pipeline := NewPipeline(repository.Unavailable{}, source, zap.NewNop(), DefaultBatchSize)

	_, err := pipeline.IndexStore(context.Background(), "https://moda.example.com")
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Empty(t, source.calls)
}

func TestIndexStoreSourceErrors(t *testing.T) {
	upstream := &shopify.StatusError{URL: "https://moda.example.com/meta.json", StatusCode: 404}

	t.Run("metadata", func(t *testing.T) {
		catalog := newMemCatalog()
		source := newSource(1)
		source.metaErr = upstream
		pipeline := NewPipeline(catalog, source, zap.NewNop(), DefaultBatchSize)

		_, err := pipeline.IndexStore(context.Background(), "https://moda.example.com")
		var serr *SourceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, ResourceMetadata, serr.Resource)
		assert.ErrorIs(t, err, upstream)
		assert.Len(t, source.calls, 1, "products must not be fetched after a metadata failure")
		assert.Empty(t, catalog.stores)
	})

	t.Run("products", func(t *testing.T) {
		catalog := newMemCatalog()
		source := newSource(1)
		source.productsErr = errors.New("connection reset")
		pipeline := NewPipeline(catalog, source, zap.NewNop(), DefaultBatchSize)

		_, err := pipeline.IndexStore(context.Background(), "https://moda.example.com")
		var serr *SourceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, ResourceProducts, serr.Resource)
		assert.NotEqual(t, (&SourceError{Resource: ResourceMetadata}).UserMessage(), serr.UserMessage())
		assert.Empty(t, catalog.stores)
	})
}

func TestIndexStoreCancelledContext(t *testing.T) {
	catalog := newMemCatalog()
	pipeline := NewPipeline(catalog, newSource(10), zap.NewNop(), DefaultBatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.IndexStore(ctx, "https://moda.example.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, catalog.batchSizes)
}
