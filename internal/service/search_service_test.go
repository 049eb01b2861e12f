package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/metrics"
	"github.com/apexwerks/storefront-core/internal/port"
)

func newSearchService(vs *fakeVehicleSource, ps *fakeProductSource) *SearchService {
	m := metrics.New()
	cache := newFakeCache()
	index := NewIndexService(vs, ps, cache, m, time.Minute)
	return NewSearchService(index, cache, nil, m, time.Minute)
}

func searchFixtures() (*fakeVehicleSource, *fakeProductSource) {
	vs := &fakeVehicleSource{live: []domain.Vehicle{
		vehicleFixture(1, "E46", "2003 BMW E46 M3"),
		vehicleFixture(2, "E39", "2001 BMW E39 M5"),
	}}
	p1 := productFixture(1, "E46 M3 Brake Kit", "BMW E46 2001-2006", "Brakes")
	p1.Description = "High performance brake kit for the E46 M3 chassis with slotted rotors."
	p2 := productFixture(2, "Universal Oil Filter", "BMW Universal", "Filters")
	p2.Description = "Fits all BMW engines."
	ps := &fakeProductSource{available: []domain.Product{p1, p2}}
	return vs, ps
}

func TestSearchTooShort(t *testing.T) {
	svc := newSearchService(searchFixtures())

	for _, q := range []string{"", "a", " a "} {
		_, err := svc.Search(context.Background(), domain.SearchRequest{Query: q})
		assert.ErrorIs(t, err, port.ErrQueryTooShort, "query %q", q)
	}

	// A two-character query proceeds to the matching path.
	resp, err := svc.Search(context.Background(), domain.SearchRequest{Query: "m3"})
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestSearchTooLong(t *testing.T) {
	svc := newSearchService(searchFixtures())

	long := make([]byte, maxQueryLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.Search(context.Background(), domain.SearchRequest{Query: string(long)})
	assert.ErrorIs(t, err, port.ErrQueryTooLong)
}

func TestSearchInvalidType(t *testing.T) {
	svc := newSearchService(searchFixtures())

	_, err := svc.Search(context.Background(), domain.SearchRequest{Query: "e46", Type: "boats"})
	assert.ErrorIs(t, err, port.ErrInvalidSearchType)
}

func TestSearchMatchesBothKinds(t *testing.T) {
	svc := newSearchService(searchFixtures())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{Query: "e46"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.VehicleCount)
	assert.Equal(t, 1, resp.PartsCount)
	assert.Equal(t, 2, resp.TotalResults)
	require.Len(t, resp.Results, 2)
}

func TestSearchTypeFilterKeepsCountsAccurate(t *testing.T) {
	svc := newSearchService(searchFixtures())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{Query: "e46", Type: domain.SearchTypeVehicles})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, domain.KindVehicle, resp.Results[0].Kind)
	assert.Equal(t, 1, resp.TotalResults)
	// Counts cover the full match set even when the filter hides a group.
	assert.Equal(t, 1, resp.VehicleCount)
	assert.Equal(t, 1, resp.PartsCount)
}

func TestSearchZeroMatchesIsNotAnError(t *testing.T) {
	svc := newSearchService(searchFixtures())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{Query: "flux capacitor"})
	require.NoError(t, err)
	assert.Zero(t, resp.TotalResults)
	assert.Empty(t, resp.Results)
}

func TestSearchHighlighting(t *testing.T) {
	svc := newSearchService(searchFixtures())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{Query: "brake"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	hit := resp.Results[0]
	assert.Contains(t, hit.Title+hit.Snippet, "<mark>")
}

func TestSearchPagination(t *testing.T) {
	var products []domain.Product
	for i := 1; i <= PerPage+5; i++ {
		products = append(products, productFixture(i, "Brake Component", "Brakes"))
	}
	svc := newSearchService(&fakeVehicleSource{}, &fakeProductSource{available: products})

	page1, err := svc.Search(context.Background(), domain.SearchRequest{Query: "brake", Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1.Results, PerPage)
	assert.Equal(t, PerPage+5, page1.TotalResults)

	page2, err := svc.Search(context.Background(), domain.SearchRequest{Query: "brake", Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Results, 5)
	assert.Equal(t, 2, page2.Page)

	// Pages beyond the result set are empty but well-formed.
	page9, err := svc.Search(context.Background(), domain.SearchRequest{Query: "brake", Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page9.Results)
	assert.Equal(t, PerPage+5, page9.TotalResults)
}

func TestSearchUpstreamOutageDegradesToEmpty(t *testing.T) {
	svc := newSearchService(&fakeVehicleSource{err: errUpstreamDown}, &fakeProductSource{err: errUpstreamDown})

	resp, err := svc.Search(context.Background(), domain.SearchRequest{Query: "e46"})
	require.NoError(t, err, "index outage degrades to zero results, not an error")
	assert.Zero(t, resp.TotalResults)
}

func TestSearchResultCacheReused(t *testing.T) {
	vs, ps := searchFixtures()
	svc := newSearchService(vs, ps)

	_, err := svc.Search(context.Background(), domain.SearchRequest{Query: "E46"})
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), domain.SearchRequest{Query: "e46", Type: domain.SearchTypeParts})
	require.NoError(t, err)

	// Same normalized query: the ranked match set is computed once.
	assert.Equal(t, 1, vs.liveCalls)
	assert.Equal(t, 1, ps.calls)
}

func TestSuggestCapAndViewAll(t *testing.T) {
	var products []domain.Product
	for i := 1; i <= 8; i++ {
		products = append(products, productFixture(i, "Brake Component", "Brakes"))
	}
	svc := newSearchService(&fakeVehicleSource{}, &fakeProductSource{available: products})

	resp, err := svc.Suggest(context.Background(), "brake")
	require.NoError(t, err)

	require.Len(t, resp.Suggestions, SuggestLimit+1)
	last := resp.Suggestions[SuggestLimit]
	assert.True(t, last.ViewAll)
	assert.Contains(t, last.Title, "8")
	assert.Equal(t, 8, resp.TotalResults)
}

func TestSuggestNoMatchesOmitsViewAll(t *testing.T) {
	svc := newSearchService(searchFixtures())

	resp, err := svc.Suggest(context.Background(), "driveshaft")
	require.NoError(t, err)

	assert.Empty(t, resp.Suggestions)
	assert.Zero(t, resp.TotalResults)
}

func TestSuggestTooShort(t *testing.T) {
	svc := newSearchService(searchFixtures())

	_, err := svc.Suggest(context.Background(), "a")
	assert.ErrorIs(t, err, port.ErrQueryTooShort)
}

func TestWarmPopularSkipsShortTerms(t *testing.T) {
	vs, ps := searchFixtures()
	svc := newSearchService(vs, ps)

	svc.WarmPopular(context.Background(), []string{"e46", "x", "m3"})

	// Both warmed terms share the same single index build.
	assert.Equal(t, 1, vs.liveCalls)
	assert.Equal(t, 1, ps.calls)
}
