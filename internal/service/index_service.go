package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/metrics"
	"github.com/apexwerks/storefront-core/internal/port"
)

// Cache keys for the flattened search indexes.
const (
	vehicleIndexKey = "search:vehicles:index"
	productIndexKey = "search:products:index"
)

// DefaultIndexTTL is how long a built index stays fresh before a read
// triggers a rebuild.
const DefaultIndexTTL = 15 * time.Minute

// IndexService builds and caches the flattened search projections of the
// two upstream record types. Builds are pure functions of upstream state, so
// concurrent rebuilds of the same key are duplicate work, not a hazard.
type IndexService struct {
	vehicles port.VehicleSource
	products port.ProductSource
	cache    port.Cache
	counters *metrics.Counters
	ttl      time.Duration
}

// NewIndexService creates an index service with the given TTL; ttl <= 0
// falls back to DefaultIndexTTL.
func NewIndexService(vehicles port.VehicleSource, products port.ProductSource, cache port.Cache, counters *metrics.Counters, ttl time.Duration) *IndexService {
	if ttl <= 0 {
		ttl = DefaultIndexTTL
	}
	return &IndexService{
		vehicles: vehicles,
		products: products,
		cache:    cache,
		counters: counters,
		ttl:      ttl,
	}
}

// TransformVehicleToSearchable flattens a vehicle record into its searchable
// projection. Fields absent from the list-view shape (VIN) stay nil.
func TransformVehicleToSearchable(v domain.Vehicle) domain.SearchableVehicle {
	return domain.SearchableVehicle{
		ID:              v.ID,
		ListingTitle:    v.ListingTitle,
		Slug:            v.Slug,
		Chassis:         v.Chassis,
		VIN:             v.VIN,
		Mileage:         v.Mileage,
		ListingPrice:    v.ListingPrice,
		Status:          v.Status,
		InventoryStatus: v.InventoryStatus,
		CreatedAt:       v.CreatedAt,
	}
}

// TransformProductToSearchable flattens a product record into its searchable
// projection, space-joining tags so token search covers them.
func TransformProductToSearchable(p domain.Product) domain.SearchableProduct {
	return domain.SearchableProduct{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Description:      p.Description,
		Vendor:           p.Vendor,
		ProductType:      p.ProductType,
		Tags:             strings.Join(p.Tags, " "),
		MinPrice:         p.PriceRange.MinVariantPrice.Amount,
		MaxPrice:         p.PriceRange.MaxVariantPrice.Amount,
		AvailableForSale: p.AvailableForSale,
		UpdatedAt:        p.UpdatedAt,
	}
}

// BuildVehicleIndex fetches all live vehicles and maps them through the
// searchable transform. An upstream failure is logged and counted, and the
// build degrades to an empty index instead of propagating the error.
func (s *IndexService) BuildVehicleIndex(ctx context.Context) []domain.SearchableVehicle {
	vehicles, err := s.vehicles.FetchLive(ctx)
	if err != nil {
		slog.Error("vehicle index build failed", "error", err)
		s.counters.VehicleFetchErrors.Add(1)
		return []domain.SearchableVehicle{}
	}

	index := make([]domain.SearchableVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		index = append(index, TransformVehicleToSearchable(v))
	}
	return index
}

// BuildProductIndex fetches all available products and maps them through the
// searchable transform, with the same graceful-empty failure semantics.
func (s *IndexService) BuildProductIndex(ctx context.Context) []domain.SearchableProduct {
	products, err := s.products.FetchAvailable(ctx)
	if err != nil {
		slog.Error("product index build failed", "error", err)
		s.counters.ProductFetchErrors.Add(1)
		return []domain.SearchableProduct{}
	}

	index := make([]domain.SearchableProduct, 0, len(products))
	for _, p := range products {
		index = append(index, TransformProductToSearchable(p))
	}
	return index
}

// VehicleIndex is the read-through accessor: cached index on hit, rebuild
// and recache on miss.
func (s *IndexService) VehicleIndex(ctx context.Context) []domain.SearchableVehicle {
	if cached, ok := s.cache.Get(vehicleIndexKey); ok {
		if index, ok := cached.([]domain.SearchableVehicle); ok {
			return index
		}
	}

	index := s.BuildVehicleIndex(ctx)
	s.cache.Set(vehicleIndexKey, index, s.ttl)
	return index
}

// ProductIndex is the read-through accessor for the product index.
func (s *IndexService) ProductIndex(ctx context.Context) []domain.SearchableProduct {
	if cached, ok := s.cache.Get(productIndexKey); ok {
		if index, ok := cached.([]domain.SearchableProduct); ok {
			return index
		}
	}

	index := s.BuildProductIndex(ctx)
	s.cache.Set(productIndexKey, index, s.ttl)
	return index
}

// RefreshVehicleIndex unconditionally rebuilds and overwrites the cached
// vehicle index. Invoked by content change notifications.
func (s *IndexService) RefreshVehicleIndex(ctx context.Context) {
	index := s.BuildVehicleIndex(ctx)
	s.cache.Set(vehicleIndexKey, index, s.ttl)
	s.counters.IndexRebuilds.Add(1)
	slog.Info("vehicle index refreshed", "documents", len(index))
}

// RefreshProductIndex unconditionally rebuilds and overwrites the cached
// product index. Invoked by commerce change notifications.
func (s *IndexService) RefreshProductIndex(ctx context.Context) {
	index := s.BuildProductIndex(ctx)
	s.cache.Set(productIndexKey, index, s.ttl)
	s.counters.IndexRebuilds.Add(1)
	slog.Info("product index refreshed", "documents", len(index))
}

// RefreshAll rebuilds both indexes concurrently and waits for both.
func (s *IndexService) RefreshAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.RefreshVehicleIndex(ctx)
		return nil
	})
	g.Go(func() error {
		s.RefreshProductIndex(ctx)
		return nil
	})
	_ = g.Wait()
}

// WarmSearchCache builds both indexes once at startup so the first real
// request is not a cold miss. Never fatal: failures are already swallowed by
// the builders.
func (s *IndexService) WarmSearchCache(ctx context.Context) {
	slog.Info("warming search cache")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.VehicleIndex(ctx)
		return nil
	})
	g.Go(func() error {
		s.ProductIndex(ctx)
		return nil
	})
	_ = g.Wait()
	slog.Info("search cache warmed")
}
