package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/cache"
	"github.com/jperezr21/trendito/internal/metrics"
	"github.com/jperezr21/trendito/internal/models"
	"github.com/jperezr21/trendito/internal/repository"
)

const (
	DefaultLimit = 50
	cachePrefix  = "search:"
)

type Results struct {
	Products []models.SearchResult `json:"products"`
	Total    int                   `json:"total"`
}

// Service busca productos por substring en título o descripción
type Service struct {
	catalog repository.CatalogRepository
	cache   *cache.Cache[*Results]
	limit   int
	logger  *zap.Logger
}

// NewService crea el servicio. Con cacheTTL en cero no se cachea nada.
func NewService(catalog repository.CatalogRepository, logger *zap.Logger, limit int, cacheTTL time.Duration) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s := &Service{
		catalog: catalog,
		limit:   limit,
		logger:  logger,
	}
	if cacheTTL > 0 {
		s.cache = cache.New[*Results](cacheTTL, 5*time.Minute)
	}
	return s
}

func (s *Service) Search(ctx context.Context, query string) (*Results, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Results{Products: []models.SearchResult{}, Total: 0}, nil
	}

	cacheKey := cachePrefix + strings.ToLower(query)
	if s.cache != nil {
		if cached, found := s.cache.Get(cacheKey); found {
			metrics.SearchRequestsTotal.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	products, err := s.catalog.SearchProducts(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}
	if len(products) > s.limit {
		products = products[:s.limit]
	}

	results := &Results{Products: products, Total: len(products)}
	metrics.SearchRequestsTotal.WithLabelValues("catalog").Inc()
	metrics.SearchResults.Observe(float64(results.Total))
	s.logger.Debug("search completed", zap.String("query", query), zap.Int("total", results.Total))

	if s.cache != nil {
		s.cache.Set(cacheKey, results)
	}
	return results, nil
}

// Invalidate descarta las búsquedas cacheadas; se llama tras indexar
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.DeleteByPrefix(cachePrefix)
	}
}

func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}
