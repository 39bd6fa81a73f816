package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port    string
	GinMode string

	// Backend del catálogo: postgres, mongo o sqlite
	StoreDriver string
	DatabaseURL string
	MongoURI    string
	MongoDB     string
	SQLitePath  string

	LogLevel  string
	LogFormat string

	ShopifyTimeout   time.Duration
	ShopifyUserAgent string

	IngestBatchSize int
	SearchLimit     int
	SearchCacheTTL  time.Duration

	// EnvSource indica de dónde salió la configuración (.env o entorno)
	EnvSource string
}

func LoadConfig() (*Config, error) {
	source := "environment"
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, err
		}
		source = ".env"
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "release"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MongoURI:         getEnv("MONGO_URI", ""),
		MongoDB:          getEnv("MONGO_DB", "trendito"),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		ShopifyTimeout:   getDuration("SHOPIFY_TIMEOUT", 30*time.Second),
		ShopifyUserAgent: getEnv("SHOPIFY_USER_AGENT", "TrenditoBot/1.0"),
		IngestBatchSize:  getInt("INGEST_BATCH_SIZE", 50),
		SearchLimit:      getInt("SEARCH_LIMIT", 50),
		SearchCacheTTL:   getDuration("SEARCH_CACHE_TTL", 0),
		EnvSource:        source,
	}, nil
}

// CatalogConfigured reporta si el driver elegido tiene cadena de conexión.
// Sin ella el catálogo arranca en estado no disponible.
func (c *Config) CatalogConfigured() bool {
	switch c.StoreDriver {
	case DriverPostgres:
		return c.DatabaseURL != ""
	case DriverMongo:
		return c.MongoURI != ""
	case DriverSQLite:
		return c.SQLitePath != ""
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
