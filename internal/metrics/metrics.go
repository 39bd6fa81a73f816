// Package metrics expone las métricas Prometheus de indexación y búsqueda.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IngestionsTotal cuenta las indexaciones por resultado
	IngestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendito",
			Subsystem: "ingestion",
			Name:      "runs_total",
			Help:      "Total number of store ingestions by outcome",
		},
		[]string{"outcome"},
	)

	// ProductsFetched cuenta los productos recibidos de las tiendas
	ProductsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trendito",
			Subsystem: "ingestion",
			Name:      "products_fetched_total",
			Help:      "Total number of products fetched from upstream stores",
		},
	)

	// ProductsInserted cuenta los productos guardados en el catálogo
	ProductsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trendito",
			Subsystem: "ingestion",
			Name:      "products_inserted_total",
			Help:      "Total number of products inserted into the catalog",
		},
	)

	// FailedBatches cuenta los lotes descartados
	FailedBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trendito",
			Subsystem: "ingestion",
			Name:      "failed_batches_total",
			Help:      "Total number of product batches skipped after an insert error",
		},
	)

	// UpstreamRequestDuration mide las llamadas a meta.json y products.json
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trendito",
			Subsystem: "shopify",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream Shopify requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"resource", "status"},
	)

	// SearchRequestsTotal cuenta las búsquedas, separando aciertos de caché
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendito",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of search queries by source",
		},
		[]string{"source"},
	)

	// SearchResults mide cuántas filas devuelve cada búsqueda
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trendito",
			Subsystem: "search",
			Name:      "results",
			Help:      "Number of rows returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50},
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
