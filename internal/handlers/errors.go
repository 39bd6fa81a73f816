package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/ingestion"
	"github.com/jperezr21/trendito/internal/repository"
)

const msgCatalogUnavailable = "database not configured"

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError traduce el error al código HTTP. El detalle de los errores
// inesperados queda solo en el log.
func respondError(c *gin.Context, logger *zap.Logger, err error, internalMessage string) {
	var verr *ingestion.ValidationError
	var serr *ingestion.SourceError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message})
	case errors.As(err, &serr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: serr.UserMessage()})
	case errors.Is(err, repository.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgCatalogUnavailable})
	default:
		logger.Error(internalMessage,
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalMessage})
	}
	_ = c.Error(err)
}
