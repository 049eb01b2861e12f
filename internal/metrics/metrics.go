// Package metrics counts the failures the serving path deliberately
// swallows, so degraded upstreams stay observable even though callers only
// ever see empty results.
package metrics

import "sync/atomic"

// Counters aggregates error and traffic counters for the search subsystem.
type Counters struct {
	VehicleFetchErrors atomic.Int64
	ProductFetchErrors atomic.Int64
	CompatErrors       atomic.Int64
	SearchErrors       atomic.Int64
	SearchQueries      atomic.Int64
	IndexRebuilds      atomic.Int64
}

// Snapshot is a point-in-time JSON-friendly copy of the counters.
type Snapshot struct {
	VehicleFetchErrors int64 `json:"vehicle_fetch_errors"`
	ProductFetchErrors int64 `json:"product_fetch_errors"`
	CompatErrors       int64 `json:"compat_errors"`
	SearchErrors       int64 `json:"search_errors"`
	SearchQueries      int64 `json:"search_queries"`
	IndexRebuilds      int64 `json:"index_rebuilds"`
}

// New returns zeroed counters.
func New() *Counters {
	return &Counters{}
}

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		VehicleFetchErrors: c.VehicleFetchErrors.Load(),
		ProductFetchErrors: c.ProductFetchErrors.Load(),
		CompatErrors:       c.CompatErrors.Load(),
		SearchErrors:       c.SearchErrors.Load(),
		SearchQueries:      c.SearchQueries.Load(),
		IndexRebuilds:      c.IndexRebuilds.Load(),
	}
}
