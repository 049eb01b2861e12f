// Package cms implements port.VehicleSource against the hosted content
// backend's query API.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/port"
)

// Config holds the connection settings for the content backend.
type Config struct {
	BaseURL string // e.g. https://yourproject.api.sanity.io
	Dataset string // e.g. production
	Token   string // read token (empty = public dataset)
}

// Client queries vehicle records from the content backend.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a content backend client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

const vehicleFields = `{
	"id": _id,
	"listing_title": listingTitle,
	"slug": slug.current,
	"chassis": chassis,
	"vin": vin,
	"mileage": mileage,
	"listing_price": listingPrice,
	"show_call_for_price": showCallForPrice,
	"status": status,
	"inventory_status": inventoryStatus,
	"created_at": _createdAt
}`

// FetchLive returns every live vehicle listing.
func (c *Client) FetchLive(ctx context.Context) ([]domain.Vehicle, error) {
	query := `*[_type == "vehicle" && isLive == true] ` + vehicleFields
	var vehicles []domain.Vehicle
	if err := c.query(ctx, query, nil, &vehicles); err != nil {
		return nil, fmt.Errorf("cms fetch live vehicles: %w", err)
	}
	return vehicles, nil
}

// FetchByModels returns up to limit current-inventory vehicles whose chassis
// is in models, newest first.
func (c *Client) FetchByModels(ctx context.Context, models []string, limit int) ([]domain.Vehicle, error) {
	query := fmt.Sprintf(
		`*[_type == "vehicle" && chassis in $models && inventoryStatus == "Current Inventory"] | order(_createdAt desc) [0...%d] %s`,
		limit, vehicleFields,
	)
	var vehicles []domain.Vehicle
	if err := c.query(ctx, query, map[string]any{"models": models}, &vehicles); err != nil {
		return nil, fmt.Errorf("cms fetch vehicles by models: %w", err)
	}
	return vehicles, nil
}

// GetBySlug returns a single vehicle by its URL slug.
func (c *Client) GetBySlug(ctx context.Context, slug string) (*domain.Vehicle, error) {
	query := `*[_type == "vehicle" && slug.current == $slug][0] ` + vehicleFields
	var vehicle *domain.Vehicle
	if err := c.query(ctx, query, map[string]any{"slug": slug}, &vehicle); err != nil {
		return nil, fmt.Errorf("cms get vehicle: %w", err)
	}
	if vehicle == nil {
		return nil, port.ErrVehicleNotFound
	}
	return vehicle, nil
}

// query executes a GROQ query and decodes the result envelope into out.
func (c *Client) query(ctx context.Context, groq string, params map[string]any, out any) error {
	values := url.Values{"query": {groq}}
	for name, val := range params {
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v2021-10-21/data/query/%s?%s", c.cfg.BaseURL, c.cfg.Dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("content api status %d: %s", resp.StatusCode, body)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	return json.Unmarshal(envelope.Result, out)
}
