package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/search"
)

type Searcher interface {
	Search(ctx context.Context, query string) (*search.Results, error)
}

type SearchHandler struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewSearchHandler(searcher Searcher, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

// Search busca productos por ?q= en título o descripción
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err, "internal server error")
		return
	}
	c.JSON(http.StatusOK, results)
}
