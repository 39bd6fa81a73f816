package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/ingestion"
	"github.com/jperezr21/trendito/internal/models"
)

type Indexer interface {
	IndexStore(ctx context.Context, rawURL string) (*ingestion.Result, error)
}

// Invalidator descarta resultados de búsqueda cacheados
type Invalidator interface {
	Invalidate()
}

type IndexStoreRequest struct {
	URL string `json:"url" binding:"required"`
}

type IndexStoreResponse struct {
	Success       bool                `json:"success"`
	Store         models.StoreSummary `json:"store"`
	ProductsCount int                 `json:"productsCount"`
	TotalProducts int                 `json:"totalProducts"`
}

type AdminHandler struct {
	indexer     Indexer
	invalidator Invalidator
	logger      *zap.Logger
}

func NewAdminHandler(indexer Indexer, invalidator Invalidator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		indexer:     indexer,
		invalidator: invalidator,
		logger:      logger,
	}
}

// IndexStore indexa (o reindexa) una tienda Shopify
func (h *AdminHandler) IndexStore(c *gin.Context) {
	var req IndexStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "url is required"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.indexer.IndexStore(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, h.logger, err, "internal server error during indexing")
		return
	}

	// Invalidar búsquedas cacheadas
	if h.invalidator != nil {
		h.invalidator.Invalidate()
	}

	c.JSON(http.StatusOK, IndexStoreResponse{
		Success:       true,
		Store:         result.Store,
		ProductsCount: result.ProductsCount,
		TotalProducts: result.TotalProducts,
	})
}
