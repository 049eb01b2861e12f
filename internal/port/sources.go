package port

import (
	"context"

	"github.com/apexwerks/storefront-core/internal/domain"
)

// VehicleSource abstracts the hosted content backend that owns vehicle
// listings. Implementations translate these calls into backend queries and
// return errors for the caller to recover from.
type VehicleSource interface {
	// FetchLive returns every live vehicle listing.
	FetchLive(ctx context.Context) ([]domain.Vehicle, error)

	// FetchByModels returns up to limit current-inventory vehicles whose
	// chassis code is in models, in backend-provided order (newest first).
	FetchByModels(ctx context.Context, models []string, limit int) ([]domain.Vehicle, error)

	// GetBySlug returns a single vehicle by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Vehicle, error)
}

// ProductSource abstracts the hosted commerce backend that owns the part
// catalog.
type ProductSource interface {
	// FetchAvailable returns every product available for sale, in catalog
	// order.
	FetchAvailable(ctx context.Context) ([]domain.Product, error)

	// GetByHandle returns a single product by its handle.
	GetByHandle(ctx context.Context, handle string) (*domain.Product, error)
}

// SearchLogWriter persists search analytics records. Implementations must
// tolerate being called from goroutines off the serving path.
type SearchLogWriter interface {
	WriteSearchLog(log *domain.SearchLog) error
	TopTerms(ctx context.Context, limit int) ([]domain.TermCount, error)
}
