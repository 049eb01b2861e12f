package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/port"
)

var errUpstreamDown = errors.New("upstream unavailable")

type fakeVehicleSource struct {
	mu         sync.Mutex
	live       []domain.Vehicle
	current    []domain.Vehicle
	err        error
	liveCalls  int
	modelCalls int
	lastModels []string
}

func (f *fakeVehicleSource) FetchLive(context.Context) ([]domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liveCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.live, nil
}

func (f *fakeVehicleSource) FetchByModels(_ context.Context, models []string, limit int) ([]domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modelCalls++
	f.lastModels = models
	if f.err != nil {
		return nil, f.err
	}
	out := f.current
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeVehicleSource) GetBySlug(_ context.Context, slug string) (*domain.Vehicle, error) {
	for i := range f.live {
		if f.live[i].Slug == slug {
			return &f.live[i], nil
		}
	}
	return nil, port.ErrVehicleNotFound
}

type fakeProductSource struct {
	mu        sync.Mutex
	available []domain.Product
	err       error
	calls     int
}

func (f *fakeProductSource) FetchAvailable(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.available, nil
}

func (f *fakeProductSource) GetByHandle(_ context.Context, handle string) (*domain.Product, error) {
	for i := range f.available {
		if f.available[i].Handle == handle {
			return &f.available[i], nil
		}
	}
	return nil, port.ErrProductNotFound
}

// fakeCache is a no-expiry cache for wiring services in tests.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]any)}
}

func (c *fakeCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func vehicleFixture(n int, chassis, title string) domain.Vehicle {
	return domain.Vehicle{
		ID:              "veh-" + strconv.Itoa(n),
		ListingTitle:    title,
		Slug:            "vehicle-" + strconv.Itoa(n),
		Chassis:         chassis,
		Status:          "Available",
		InventoryStatus: domain.InventoryCurrent,
	}
}

func productFixture(n int, title string, tags ...string) domain.Product {
	p := domain.Product{
		ID:               "prod-" + strconv.Itoa(n),
		Handle:           "product-" + strconv.Itoa(n),
		Title:            title,
		Tags:             tags,
		AvailableForSale: true,
	}
	p.PriceRange.MinVariantPrice = domain.Money{Amount: "49.00", CurrencyCode: "USD"}
	p.PriceRange.MaxVariantPrice = domain.Money{Amount: "99.00", CurrencyCode: "USD"}
	return p
}
