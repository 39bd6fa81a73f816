package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/config"
	"github.com/jperezr21/trendito/internal/database"
	"github.com/jperezr21/trendito/internal/handlers"
	"github.com/jperezr21/trendito/internal/ingestion"
	"github.com/jperezr21/trendito/internal/logger"
	"github.com/jperezr21/trendito/internal/repository"
	"github.com/jperezr21/trendito/internal/routes"
	"github.com/jperezr21/trendito/internal/search"
	"github.com/jperezr21/trendito/internal/shopify"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("configuration loaded", zap.String("source", cfg.EnvSource), zap.String("store_driver", cfg.StoreDriver))

	catalog, closeCatalog, err := openCatalog(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open catalog", zap.Error(err))
	}
	defer closeCatalog()

	client := shopify.NewClient(shopify.Config{
		Timeout:   cfg.ShopifyTimeout,
		UserAgent: cfg.ShopifyUserAgent,
	}, zlog)
	pipeline := ingestion.NewPipeline(catalog, client, zlog, cfg.IngestBatchSize)
	searchService := search.NewService(catalog, zlog, cfg.SearchLimit, cfg.SearchCacheTTL)
	defer searchService.Close()

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(logger.GinLogger(zlog), logger.GinRecovery(zlog))
	routes.RegisterRoutes(router, routes.Handlers{
		Admin:  handlers.NewAdminHandler(pipeline, searchService, zlog),
		Search: handlers.NewSearchHandler(searchService, zlog),
		Health: handlers.NewHealthHandler(catalog, zlog),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	zlog.Info("shutting down", zap.String("signal", sig.String()))

	// la indexación en curso se corta cuando vence este plazo
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShopifyTimeout+15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openCatalog abre el backend elegido. Sin cadena de conexión devuelve un
// catálogo no disponible y el servidor arranca igual.
func openCatalog(cfg *config.Config, zlog *zap.Logger) (repository.CatalogRepository, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite, config.DriverMongo:
	default:
		return nil, noop, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if !cfg.CatalogConfigured() {
		zlog.Warn("catalog not configured, search and indexing will return 503", zap.String("store_driver", cfg.StoreDriver))
		return repository.Unavailable{}, noop, nil
	}

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewGormCatalogRepository(db), func() { _ = database.Close(db) }, nil

	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewMongoCatalogRepository(client.Database(cfg.MongoDB))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, noop, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		db, err := database.OpenPostgres(cfg.DatabaseURL, zlog)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewGormCatalogRepository(db), func() { _ = database.Close(db) }, nil
	}
}
