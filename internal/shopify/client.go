package shopify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jperezr21/trendito/internal/metrics"
)

const (
	MetaPath     = "/meta.json"
	ProductsPath = "/collections/all/products.json"

	// maxResponseSize limita el cuerpo de products.json (20MB)
	maxResponseSize = 20 * 1024 * 1024
)

type Meta struct {
	Shop Shop `json:"shop"`
}

type Shop struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    *string   `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Handle      string    `json:"handle"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
}

type Image struct {
	Src string `json:"src"`
}

type Variant struct {
	Price string `json:"price"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

// StatusError se devuelve cuando la tienda responde con un status no 2xx
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Client consulta los endpoints públicos de una tienda Shopify
type Client struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// FetchMeta obtiene <base>/meta.json
func (c *Client) FetchMeta(ctx context.Context, baseURL string) (*Meta, error) {
	var meta Meta
	if err := c.getJSON(ctx, "metadata", endpoint(baseURL, MetaPath), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// FetchProducts obtiene <base>/collections/all/products.json
func (c *Client) FetchProducts(ctx context.Context, baseURL string) ([]Product, error) {
	var resp productsResponse
	if err := c.getJSON(ctx, "products", endpoint(baseURL, ProductsPath), &resp); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		return []Product{}, nil
	}
	return resp.Products, nil
}

func (c *Client) getJSON(ctx context.Context, resource, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(resource, "error").Observe(time.Since(start).Seconds())
		return errors.Wrapf(err, "failed to fetch %s", url)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestDuration.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	c.logger.Debug("upstream response",
		zap.String("resource", resource),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", url)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.Wrapf(err, "failed to decode %s", url)
	}
	return nil
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
