// Package woocommerce provides a client for the WooCommerce REST API v3.
// It reads orders and products from a store and converts them into the
// canonical model.Order snapshot consumed by the export pipeline.
package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sheets-bridge/internal/model"
)

const (
	// restAPIPath is the REST v3 base path appended to the store URL.
	restAPIPath = "/wp-json/wc/v3"

	// defaultTimeout bounds each REST call.
	defaultTimeout = 30 * time.Second

	// userAgent identifies this client to the store.
	userAgent = "sheets-bridge/1.0"

	// maxResponseBody caps how much of a response we read.
	maxResponseBody = 10 << 20
)

// Config holds the settings for a WooCommerce REST client.
type Config struct {
	// StoreURL is the base URL of the WooCommerce store (no trailing slash).
	StoreURL string

	// ConsumerKey and ConsumerSecret are REST API credentials with
	// read access to orders and products.
	ConsumerKey    string
	ConsumerSecret string

	// PriceDecimals is the store's price decimal setting. Zero means
	// the default of 2.
	PriceDecimals int

	// Timeout overrides the default per-request timeout.
	Timeout time.Duration

	// Transport overrides the HTTP transport. Used to route requests
	// through the browser-impersonating TLS transport.
	Transport http.RoundTripper

	// Logger receives request-level debug logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a WooCommerce REST API v3 client with a small in-memory
// product cache. Products rarely change between order exports, so
// repeated category lookups for the same product hit the cache.
type Client struct {
	httpClient     *http.Client
	storeURL       string
	consumerKey    string
	consumerSecret string
	priceDecimals  int
	logger         *slog.Logger

	mu           sync.Mutex
	productCache map[int]*WooProduct
}

// New creates a WooCommerce client from the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("consumer key and secret are required")
	}
	if _, err := url.Parse(cfg.StoreURL); err != nil {
		return nil, fmt.Errorf("invalid store URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	decimals := cfg.PriceDecimals
	if decimals == 0 {
		decimals = 2
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
		storeURL:       strings.TrimSuffix(cfg.StoreURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		priceDecimals:  decimals,
		logger:         logger,
		productCache:   make(map[int]*WooProduct),
	}, nil
}

// GetOrder fetches a single order and resolves the category and type
// information for each of its line items.
func (c *Client) GetOrder(ctx context.Context, id int) (*model.Order, error) {
	var wo WooOrder
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &wo); err != nil {
		return nil, err
	}
	products := c.loadProducts(ctx, &wo)
	return transformOrder(&wo, products, c.priceDecimals), nil
}

// ListOrders fetches one page of orders matching the query.
func (c *Client) ListOrders(ctx context.Context, q model.OrderQuery) ([]*model.Order, error) {
	params := url.Values{}
	if len(q.Statuses) > 0 {
		params.Set("status", strings.Join(q.Statuses, ","))
	}
	if !q.After.IsZero() {
		params.Set("after", q.After.Format(time.RFC3339))
	}
	if !q.Before.IsZero() {
		params.Set("before", q.Before.Format(time.RFC3339))
	}
	if q.Page > 0 {
		params.Set("page", fmt.Sprintf("%d", q.Page))
	}
	if q.PerPage > 0 {
		params.Set("per_page", fmt.Sprintf("%d", q.PerPage))
	}
	params.Set("order", "asc")
	params.Set("orderby", "date")

	var raw []WooOrder
	if err := c.get(ctx, "/orders", params, &raw); err != nil {
		return nil, err
	}

	orders := make([]*model.Order, 0, len(raw))
	for i := range raw {
		products := c.loadProducts(ctx, &raw[i])
		orders = append(orders, transformOrder(&raw[i], products, c.priceDecimals))
	}
	return orders, nil
}

// GetProduct fetches a product, following variation parents so the
// returned product always carries the category assignments. Results
// are cached for the lifetime of the client.
func (c *Client) GetProduct(ctx context.Context, id int) (*WooProduct, error) {
	c.mu.Lock()
	if p, ok := c.productCache[id]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	var p WooProduct
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &p); err != nil {
		return nil, err
	}

	// Variations carry no categories of their own; the parent does.
	if p.ParentID != 0 && len(p.Categories) == 0 {
		parent, err := c.GetProduct(ctx, p.ParentID)
		if err == nil {
			p.Categories = parent.Categories
		}
	}

	c.mu.Lock()
	c.productCache[id] = &p
	c.mu.Unlock()
	return &p, nil
}

// loadProducts resolves the product for every line item on an order.
// Lookup failures are logged and skipped so one deleted product does
// not block the whole export.
func (c *Client) loadProducts(ctx context.Context, wo *WooOrder) map[int]*WooProduct {
	products := make(map[int]*WooProduct)
	for _, item := range wo.LineItems {
		if item.ProductID == 0 {
			continue
		}
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		p, err := c.GetProduct(ctx, item.ProductID)
		if err != nil {
			c.logger.Warn("product lookup failed",
				"order_id", wo.ID,
				"product_id", item.ProductID,
				"error", err)
			continue
		}
		products[item.ProductID] = p
	}
	return products
}

// get performs an authenticated GET against the REST API and decodes
// the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.storeURL + restAPIPath + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.NewInternalError(err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("woocommerce request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("WooCommerce", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return model.NewUpstreamError("WooCommerce", fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return model.NewUpstreamError("WooCommerce", fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// parseErrorResponse converts a WooCommerce error response to an APIError.
func parseErrorResponse(statusCode int, body []byte) error {
	var wooErr WooErrorResponse
	msg := "unknown error"
	if err := json.Unmarshal(body, &wooErr); err == nil && wooErr.Message != "" {
		msg = wooErr.Message
	}

	switch statusCode {
	case http.StatusNotFound:
		return model.NewNotFoundError("order")
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewUnauthorizedError("WooCommerce authentication failed")
	case http.StatusBadRequest:
		return model.NewValidationError("request", msg)
	case http.StatusTooManyRequests:
		return model.NewRateLimitError("WooCommerce")
	default:
		return model.NewUpstreamError("WooCommerce",
			fmt.Errorf("status %d: %s - %s", statusCode, wooErr.Code, msg))
	}
}
