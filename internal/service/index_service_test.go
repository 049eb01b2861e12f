package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/metrics"
)

func newIndexService(vs *fakeVehicleSource, ps *fakeProductSource) (*IndexService, *fakeCache, *metrics.Counters) {
	c := newFakeCache()
	m := metrics.New()
	return NewIndexService(vs, ps, c, m, time.Minute), c, m
}

func TestTransformVehicleToSearchable(t *testing.T) {
	price := 42500.0
	miles := 88000
	v := vehicleFixture(1, "E46", "2003 BMW E46 M3")
	v.ListingPrice = &price
	v.Mileage = &miles

	sv := TransformVehicleToSearchable(v)

	assert.Equal(t, "veh-1", sv.ID)
	assert.Equal(t, "2003 BMW E46 M3", sv.ListingTitle)
	assert.Equal(t, "vehicle-1", sv.Slug)
	assert.Equal(t, "E46", sv.Chassis)
	assert.Nil(t, sv.VIN, "list-view records carry no VIN")
	assert.Equal(t, &price, sv.ListingPrice)
	assert.Equal(t, &miles, sv.Mileage)
}

func TestTransformProductToSearchable(t *testing.T) {
	p := productFixture(1, "Brake Pads", "BMW E46 2001-2006", "Brakes")

	sp := TransformProductToSearchable(p)

	assert.Equal(t, "BMW E46 2001-2006 Brakes", sp.Tags, "tags are space-joined")
	assert.Equal(t, "49.00", sp.MinPrice)
	assert.Equal(t, "99.00", sp.MaxPrice)
	assert.True(t, sp.AvailableForSale)
}

func TestBuildIndexesGracefulOnUpstreamFailure(t *testing.T) {
	vs := &fakeVehicleSource{err: errUpstreamDown}
	ps := &fakeProductSource{err: errUpstreamDown}
	svc, _, m := newIndexService(vs, ps)

	vehicles := svc.BuildVehicleIndex(context.Background())
	products := svc.BuildProductIndex(context.Background())

	assert.Empty(t, vehicles)
	assert.NotNil(t, vehicles)
	assert.Empty(t, products)
	assert.NotNil(t, products)
	assert.Equal(t, int64(1), m.Snapshot().VehicleFetchErrors)
	assert.Equal(t, int64(1), m.Snapshot().ProductFetchErrors)
}

func TestVehicleIndexReadThrough(t *testing.T) {
	vs := &fakeVehicleSource{live: []domain.Vehicle{vehicleFixture(1, "E46", "2003 BMW E46 M3")}}
	svc, _, _ := newIndexService(vs, &fakeProductSource{})

	first := svc.VehicleIndex(context.Background())
	second := svc.VehicleIndex(context.Background())

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, vs.liveCalls, "second read is served from cache")
}

func TestRefreshBypassesCache(t *testing.T) {
	vs := &fakeVehicleSource{live: []domain.Vehicle{vehicleFixture(1, "E46", "2003 BMW E46 M3")}}
	svc, _, m := newIndexService(vs, &fakeProductSource{})

	svc.VehicleIndex(context.Background())
	svc.RefreshVehicleIndex(context.Background())

	assert.Equal(t, 2, vs.liveCalls, "refresh rebuilds even with a fresh cache entry")
	assert.Equal(t, int64(1), m.Snapshot().IndexRebuilds)
}

func TestRefreshAllRebuildsBoth(t *testing.T) {
	vs := &fakeVehicleSource{live: []domain.Vehicle{vehicleFixture(1, "E46", "2003 BMW E46 M3")}}
	ps := &fakeProductSource{available: []domain.Product{productFixture(1, "Brake Pads", "BMW Universal")}}
	svc, cache, _ := newIndexService(vs, ps)

	svc.RefreshAll(context.Background())

	assert.Equal(t, 1, vs.liveCalls)
	assert.Equal(t, 1, ps.calls)
	_, haveVehicles := cache.Get(vehicleIndexKey)
	_, haveProducts := cache.Get(productIndexKey)
	assert.True(t, haveVehicles)
	assert.True(t, haveProducts)
}

func TestWarmSearchCachePopulatesBothIndexes(t *testing.T) {
	vs := &fakeVehicleSource{live: []domain.Vehicle{vehicleFixture(1, "E46", "2003 BMW E46 M3")}}
	ps := &fakeProductSource{available: []domain.Product{productFixture(1, "Brake Pads", "BMW Universal")}}
	svc, _, _ := newIndexService(vs, ps)

	svc.WarmSearchCache(context.Background())

	assert.Equal(t, 1, vs.liveCalls)
	assert.Equal(t, 1, ps.calls)

	// Subsequent reads hit the warmed cache.
	svc.VehicleIndex(context.Background())
	svc.ProductIndex(context.Background())
	assert.Equal(t, 1, vs.liveCalls)
	assert.Equal(t, 1, ps.calls)
}

func TestWarmSearchCacheSurvivesOutage(t *testing.T) {
	svc, _, _ := newIndexService(&fakeVehicleSource{err: errUpstreamDown}, &fakeProductSource{err: errUpstreamDown})

	// Must not panic or fail startup.
	svc.WarmSearchCache(context.Background())
}
