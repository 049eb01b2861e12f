package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/metrics"
	"github.com/apexwerks/storefront-core/internal/port"
)

const (
	// DefaultSearchTTL caches ranked match sets per normalized query.
	DefaultSearchTTL = 5 * time.Minute

	// PerPage is the fixed page size of the search surface.
	PerPage = 20

	// SuggestLimit caps autocomplete entries before the synthetic
	// view-all entry.
	SuggestLimit = 5

	minQueryLen = 2
	maxQueryLen = 100

	searchResultsKeyPrefix = "search:results:"
)

type scoredVehicle struct {
	vehicle domain.SearchableVehicle
	score   float64
}

type scoredProduct struct {
	product domain.SearchableProduct
	score   float64
}

// matchSet is the full ranked match set for one query, before any type
// filter or pagination. Both groups are always populated so per-type counts
// stay accurate in every mode.
type matchSet struct {
	vehicles []scoredVehicle
	products []scoredProduct
}

// SearchService answers ranked, highlighted, paginated text queries over the
// cached search indexes.
type SearchService struct {
	index    *IndexService
	cache    port.Cache
	logs     port.SearchLogWriter // nil when analytics is disabled
	counters *metrics.Counters
	ttl      time.Duration
}

// NewSearchService creates a search service; ttl <= 0 falls back to
// DefaultSearchTTL. logs may be nil.
func NewSearchService(index *IndexService, cache port.Cache, logs port.SearchLogWriter, counters *metrics.Counters, ttl time.Duration) *SearchService {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &SearchService{
		index:    index,
		cache:    cache,
		logs:     logs,
		counters: counters,
		ttl:      ttl,
	}
}

// Search executes a full search query. Queries under 2 characters return
// port.ErrQueryTooShort and queries over 100 return port.ErrQueryTooLong;
// expected states the handler surfaces distinctly from both zero results
// and backend failure.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	start := time.Now()

	query, searchType, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	s.counters.SearchQueries.Add(1)
	matches := s.matchAll(ctx, query)
	terms := parseQueryTerms(query)

	results := mergeRanked(matches, searchType, terms, snippetLenFull)
	total := len(results)

	offset := (page - 1) * PerPage
	if offset > total {
		offset = total
	}
	end := offset + PerPage
	if end > total {
		end = total
	}

	resp := &domain.SearchResponse{
		Results:      results[offset:end],
		TotalResults: total,
		VehicleCount: len(matches.vehicles),
		PartsCount:   len(matches.products),
		Page:         page,
		PerPage:      PerPage,
		SearchTime:   time.Since(start).Milliseconds(),
	}

	s.logSearch(query, string(searchType), total, resp.SearchTime, req.IP)
	return resp, nil
}

// Suggest executes the autocomplete variant: the same matching path capped
// to a small count, compact snippets, plus a trailing view-all entry.
func (s *SearchService) Suggest(ctx context.Context, query string) (*domain.SuggestResponse, error) {
	q, _, err := s.validate(domain.SearchRequest{Query: query, Type: domain.SearchTypeAll})
	if err != nil {
		return nil, err
	}

	matches := s.matchAll(ctx, q)
	terms := parseQueryTerms(q)
	results := mergeRanked(matches, domain.SearchTypeAll, terms, snippetLenCompact)
	total := len(results)

	limit := SuggestLimit
	if total < limit {
		limit = total
	}

	suggestions := make([]domain.Suggestion, 0, limit+1)
	for _, r := range results[:limit] {
		sg := domain.Suggestion{
			Kind:    r.Kind,
			Title:   r.Title,
			Snippet: r.Snippet,
			Score:   r.Score,
		}
		if r.Vehicle != nil {
			sg.Slug = r.Vehicle.Slug
		}
		if r.Product != nil {
			sg.Handle = r.Product.Handle
		}
		suggestions = append(suggestions, sg)
	}
	if total > 0 {
		suggestions = append(suggestions, domain.Suggestion{
			Title:   fmt.Sprintf("View all %d results", total),
			ViewAll: true,
		})
	}

	return &domain.SuggestResponse{Suggestions: suggestions, TotalResults: total}, nil
}

func (s *SearchService) validate(req domain.SearchRequest) (string, domain.SearchType, error) {
	query := strings.TrimSpace(req.Query)
	if len(query) < minQueryLen {
		return "", "", port.ErrQueryTooShort
	}
	if len(query) > maxQueryLen {
		return "", "", port.ErrQueryTooLong
	}
	searchType := req.Type
	if searchType == "" {
		searchType = domain.SearchTypeAll
	}
	if !searchType.Valid() {
		return "", "", port.ErrInvalidSearchType
	}
	return query, searchType, nil
}

// matchAll scores both indexes against the query regardless of the type
// filter, caching the ranked match set per normalized query.
func (s *SearchService) matchAll(ctx context.Context, query string) matchSet {
	cacheKey := searchResultsKeyPrefix + strings.ToLower(query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if matches, ok := cached.(matchSet); ok {
			return matches
		}
	}

	terms := parseQueryTerms(query)
	matches := matchSet{
		vehicles: rankVehicles(s.index.VehicleIndex(ctx), terms),
		products: rankProducts(s.index.ProductIndex(ctx), terms),
	}

	s.cache.Set(cacheKey, matches, s.ttl)
	return matches
}

func (s *SearchService) logSearch(query, searchType string, results int, durationMs int64, ip string) {
	if s.logs == nil {
		return
	}
	go func() {
		err := s.logs.WriteSearchLog(&domain.SearchLog{
			Query:       query,
			Type:        searchType,
			ResultCount: results,
			DurationMs:  durationMs,
			IP:          ip,
		})
		if err != nil {
			slog.Error("failed to write search log", "error", err)
			s.counters.SearchErrors.Add(1)
		}
	}()
}

// DefaultPopularTerms seeds result-cache warming when no analytics history
// exists yet.
var DefaultPopularTerms = []string{
	"BMW", "E46", "M3", "parts", "performance",
	"brake", "suspension", "engine", "M5", "E39",
}

// WarmPopular pre-runs the match path for the given terms so common queries
// start warm. Failures cannot occur; short terms are skipped.
func (s *SearchService) WarmPopular(ctx context.Context, terms []string) {
	for _, term := range terms {
		if len(strings.TrimSpace(term)) < minQueryLen {
			continue
		}
		s.matchAll(ctx, strings.TrimSpace(term))
	}
	slog.Info("search result cache warmed", "terms", len(terms))
}

func rankVehicles(index []domain.SearchableVehicle, terms []string) []scoredVehicle {
	var out []scoredVehicle
	for _, v := range index {
		fields := []weightedField{
			{v.ListingTitle, weightTitle},
			{v.Chassis, weightIdentity},
			{deref(v.VIN), weightIdentity},
			{v.Status, weightBody},
			{v.InventoryStatus, weightBody},
			{v.Slug, weightMeta},
		}
		if score, ok := scoreFields(fields, terms); ok {
			out = append(out, scoredVehicle{vehicle: v, score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func rankProducts(index []domain.SearchableProduct, terms []string) []scoredProduct {
	var out []scoredProduct
	for _, p := range index {
		fields := []weightedField{
			{p.Title, weightTitle},
			{p.Tags, weightIdentity},
			{p.Description, weightBody},
			{p.Vendor, weightMeta},
			{p.ProductType, weightMeta},
			{p.Handle, weightMeta},
		}
		if score, ok := scoreFields(fields, terms); ok {
			out = append(out, scoredProduct{product: p, score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// mergeRanked applies the type filter to the match set and renders the
// highlighted result entries, best score first across both kinds.
func mergeRanked(matches matchSet, searchType domain.SearchType, terms []string, snippetLen int) []domain.SearchResult {
	var results []domain.SearchResult

	if searchType == domain.SearchTypeAll || searchType == domain.SearchTypeVehicles {
		for _, sv := range matches.vehicles {
			v := sv.vehicle
			results = append(results, domain.SearchResult{
				Kind:    domain.KindVehicle,
				Score:   sv.score,
				Title:   highlightTerms(v.ListingTitle, terms),
				Snippet: highlightTerms(extractSnippet(vehicleSummary(v), terms, snippetLen), terms),
				Vehicle: &v,
			})
		}
	}
	if searchType == domain.SearchTypeAll || searchType == domain.SearchTypeParts {
		for _, sp := range matches.products {
			p := sp.product
			results = append(results, domain.SearchResult{
				Kind:    domain.KindProduct,
				Score:   sp.score,
				Title:   highlightTerms(p.Title, terms),
				Snippet: highlightTerms(extractSnippet(p.Description, terms, snippetLen), terms),
				Product: &p,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// vehicleSummary is the description text vehicles contribute to snippets;
// vehicle records carry no prose description, so the identifying fields
// stand in.
func vehicleSummary(v domain.SearchableVehicle) string {
	summary := v.ListingTitle + " " + v.Chassis + " " + v.Status + " " + v.InventoryStatus
	if v.VIN != nil {
		summary += " VIN " + *v.VIN
	}
	return summary
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
