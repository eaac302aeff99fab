// Package shopify implements catalog.StoreClient against the Shopify Admin
// REST API.
package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"shopagent/internal/domain/catalog"
)

const (
	defaultAPIVersion = "2023-10"
	defaultTimeout    = 15 * time.Second

	// The Admin API caps page size at 250.
	maxListLimit = 250
)

// Config carries the shop-scoped connection settings.
type Config struct {
	ShopURL     string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// Client is a single-attempt REST client: no retries, no backoff. Every call
// fetches a fresh snapshot from the store.
type Client struct {
	httpClient *resty.Client
}

var _ catalog.StoreClient = (*Client)(nil)

// NewClient wires the resty client with the shop base URL and access token.
func NewClient(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL(cfg.ShopURL, version)).
			SetHeader("Content-Type", "application/json").
			SetHeader("X-Shopify-Access-Token", cfg.AccessToken).
			SetTimeout(timeout),
	}
}

// baseURL accepts a bare shop handle ("demo-store"), a full host
// ("demo-store.myshopify.com"), or a complete URL with scheme.
func baseURL(shop, version string) string {
	trimmed := strings.TrimSuffix(shop, "/")
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return fmt.Sprintf("%s/admin/api/%s", trimmed, version)
	}
	if !strings.Contains(trimmed, ".") {
		trimmed += ".myshopify.com"
	}
	return fmt.Sprintf("https://%s/admin/api/%s", trimmed, version)
}

// ListProducts fetches up to limit products from the catalog. The limit is
// clamped to the Admin API page-size bounds.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var out struct {
		Products []catalog.Product `json:"products"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out).
		Get("/products.json")
	if err != nil {
		return nil, catalog.NewStoreError(catalog.KindNetwork, "list products", err)
	}
	if resp.IsError() {
		return nil, storeErrorFromStatus(resp, "list products", false)
	}
	return out.Products, nil
}

// GetProduct fetches a single product by its numeric identifier.
func (c *Client) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	var out struct {
		Product catalog.Product `json:"product"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/products/%d.json", id))
	if err != nil {
		return nil, catalog.NewStoreError(catalog.KindNetwork, fmt.Sprintf("get product %d", id), err)
	}
	if resp.IsError() {
		return nil, storeErrorFromStatus(resp, fmt.Sprintf("get product %d", id), true)
	}
	return &out.Product, nil
}

func storeErrorFromStatus(resp *resty.Response, op string, lookup bool) *catalog.StoreError {
	status := resp.StatusCode()
	message := fmt.Sprintf("%s: shopify returned %d", op, status)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return catalog.NewStoreError(catalog.KindAuth, message, nil)
	case lookup && status == http.StatusNotFound:
		return catalog.NewStoreError(catalog.KindNotFound, message, nil)
	default:
		return catalog.NewStoreError(catalog.KindAPI, message, nil)
	}
}
