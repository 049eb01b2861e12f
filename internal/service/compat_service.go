package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/fitment"
	"github.com/apexwerks/storefront-core/internal/metrics"
	"github.com/apexwerks/storefront-core/internal/port"
)

const (
	// DefaultCompatTTL caches ranking results per vehicle slug / product
	// handle.
	DefaultCompatTTL = 5 * time.Minute

	maxCompatibleParts  = 6
	maxVehiclesWithPart = 4

	compatPartsKeyPrefix      = "compatible-parts:"
	vehiclesWithPartKeyPrefix = "vehicles-with-part:"
)

// CompatService ranks cross-catalog fitment matches: parts compatible with a
// vehicle, and in-stock vehicles that fit a part. Both directions are
// cache-read-through and degrade to empty results on upstream failure; they
// never return an error to the caller.
type CompatService struct {
	vehicles port.VehicleSource
	products port.ProductSource
	cache    port.Cache
	counters *metrics.Counters
	ttl      time.Duration
}

// NewCompatService creates a compatibility service; ttl <= 0 falls back to
// DefaultCompatTTL.
func NewCompatService(vehicles port.VehicleSource, products port.ProductSource, cache port.Cache, counters *metrics.Counters, ttl time.Duration) *CompatService {
	if ttl <= 0 {
		ttl = DefaultCompatTTL
	}
	return &CompatService{
		vehicles: vehicles,
		products: products,
		cache:    cache,
		counters: counters,
		ttl:      ttl,
	}
}

// CompatibleParts returns up to 6 catalog products that fit the vehicle,
// exact fitment matches before universal-fit parts, catalog order preserved
// within each group.
//
// A product is an exact match when any of its tags parses to a descriptor
// naming the vehicle's chassis whose year bounds (if present) contain the
// vehicle's year; it is a universal match when any tag is universal-fit.
// Multiple matching descriptors on one product still count as one match.
// Products matching neither way are excluded entirely.
func (s *CompatService) CompatibleParts(ctx context.Context, vehicle *domain.Vehicle) []domain.Product {
	cacheKey := compatPartsKeyPrefix + vehicle.Slug
	if cached, ok := s.cache.Get(cacheKey); ok {
		if parts, ok := cached.([]domain.Product); ok {
			return parts
		}
	}

	catalog, err := s.products.FetchAvailable(ctx)
	if err != nil {
		slog.Error("compatible parts fetch failed", "vehicle", vehicle.Slug, "error", err)
		s.counters.CompatErrors.Add(1)
		return []domain.Product{}
	}

	year := fitment.ExtractYearFromTitle(vehicle.ListingTitle)

	var exact, universal []domain.Product
	for _, product := range catalog {
		switch classifyFitment(product.Tags, vehicle.Chassis, year) {
		case fitExact:
			exact = append(exact, product)
		case fitUniversal:
			universal = append(universal, product)
		}
	}

	parts := append(exact, universal...)
	if len(parts) > maxCompatibleParts {
		parts = parts[:maxCompatibleParts]
	}
	if parts == nil {
		parts = []domain.Product{}
	}

	s.cache.Set(cacheKey, parts, s.ttl)
	return parts
}

// VehiclesWithPart returns up to 4 current-inventory vehicles whose chassis
// appears in the product's fitment tags, in upstream order. A product with
// only universal or unrecognizable tags yields an empty list without ever
// querying upstream.
func (s *CompatService) VehiclesWithPart(ctx context.Context, productHandle string, productTags []string) []domain.Vehicle {
	cacheKey := vehiclesWithPartKeyPrefix + productHandle
	if cached, ok := s.cache.Get(cacheKey); ok {
		if vehicles, ok := cached.([]domain.Vehicle); ok {
			return vehicles
		}
	}

	models := fitment.ExtractModels(productTags)
	if len(models) == 0 {
		return []domain.Vehicle{}
	}

	vehicles, err := s.vehicles.FetchByModels(ctx, models, maxVehiclesWithPart)
	if err != nil {
		slog.Error("vehicles with part fetch failed", "product", productHandle, "error", err)
		s.counters.CompatErrors.Add(1)
		return []domain.Vehicle{}
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}

	s.cache.Set(cacheKey, vehicles, s.ttl)
	return vehicles
}

type fitClass int

const (
	fitNone fitClass = iota
	fitUniversal
	fitExact
)

// classifyFitment resolves a product's tag set against one vehicle. Exact
// beats universal when both apply.
func classifyFitment(tags []string, chassis string, year int) fitClass {
	class := fitNone
	for _, tag := range tags {
		d := fitment.ParseTag(tag)
		if d.Empty() {
			continue
		}
		if d.IsUniversal {
			if class < fitUniversal {
				class = fitUniversal
			}
			continue
		}
		if d.MatchesVehicle(chassis, year) {
			return fitExact
		}
	}
	return class
}
