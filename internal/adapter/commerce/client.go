// Package commerce implements port.ProductSource against the hosted
// commerce backend's storefront GraphQL API.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/port"
)

// Config holds the connection settings for the commerce backend.
type Config struct {
	BaseURL string // e.g. https://yourshop.myshopify.com
	Token   string // storefront access token
}

// Client queries product records from the commerce backend.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a commerce backend client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

const productFields = `
	id
	handle
	availableForSale
	title
	description
	vendor
	productType
	priceRange {
		maxVariantPrice { amount currencyCode }
		minVariantPrice { amount currencyCode }
	}
	featuredImage { url altText width height }
	tags
	updatedAt
`

const productsQuery = `query getProducts($query: String!) {
	products(first: 250, query: $query) {
		edges { node {` + productFields + `} }
	}
}`

const productByHandleQuery = `query getProduct($handle: String!) {
	product(handle: $handle) {` + productFields + `}
}`

type productNode struct {
	ID               string `json:"id"`
	Handle           string `json:"handle"`
	AvailableForSale bool   `json:"availableForSale"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Vendor           string `json:"vendor"`
	ProductType      string `json:"productType"`
	PriceRange       struct {
		MaxVariantPrice struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"maxVariantPrice"`
		MinVariantPrice struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"minVariantPrice"`
	} `json:"priceRange"`
	FeaturedImage *struct {
		URL     string `json:"url"`
		AltText string `json:"altText"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
	} `json:"featuredImage"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n productNode) toDomain() domain.Product {
	p := domain.Product{
		ID:               n.ID,
		Handle:           n.Handle,
		Title:            n.Title,
		Description:      n.Description,
		Vendor:           n.Vendor,
		ProductType:      n.ProductType,
		Tags:             n.Tags,
		AvailableForSale: n.AvailableForSale,
		UpdatedAt:        n.UpdatedAt,
	}
	p.PriceRange.MinVariantPrice = domain.Money{
		Amount:       n.PriceRange.MinVariantPrice.Amount,
		CurrencyCode: n.PriceRange.MinVariantPrice.CurrencyCode,
	}
	p.PriceRange.MaxVariantPrice = domain.Money{
		Amount:       n.PriceRange.MaxVariantPrice.Amount,
		CurrencyCode: n.PriceRange.MaxVariantPrice.CurrencyCode,
	}
	if n.FeaturedImage != nil {
		p.FeaturedImage = &domain.Image{
			URL:     n.FeaturedImage.URL,
			AltText: n.FeaturedImage.AltText,
			Width:   n.FeaturedImage.Width,
			Height:  n.FeaturedImage.Height,
		}
	}
	return p
}

// FetchAvailable returns every product available for sale, in catalog order.
func (c *Client) FetchAvailable(ctx context.Context) ([]domain.Product, error) {
	body, err := c.post(ctx, productsQuery, map[string]any{"query": "available_for_sale:true"})
	if err != nil {
		return nil, fmt.Errorf("commerce fetch products: %w", err)
	}

	var resp struct {
		Data struct {
			Products struct {
				Edges []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("commerce fetch products decode: %w", err)
	}

	products := make([]domain.Product, 0, len(resp.Data.Products.Edges))
	for _, edge := range resp.Data.Products.Edges {
		products = append(products, edge.Node.toDomain())
	}
	return products, nil
}

// GetByHandle returns a single product by its handle.
func (c *Client) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	body, err := c.post(ctx, productByHandleQuery, map[string]any{"handle": handle})
	if err != nil {
		return nil, fmt.Errorf("commerce get product: %w", err)
	}

	var resp struct {
		Data struct {
			Product *productNode `json:"product"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("commerce get product decode: %w", err)
	}
	if resp.Data.Product == nil {
		return nil, port.ErrProductNotFound
	}
	product := resp.Data.Product.toDomain()
	return &product, nil
}

// post executes a GraphQL request and returns the raw response body.
func (c *Client) post(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload := map[string]any{"query": query, "variables": variables}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.cfg.BaseURL + "/api/2024-01/graphql.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commerce api status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
