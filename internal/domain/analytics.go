package domain

import "time"

// SearchLog records one executed search for analytics. Stored asynchronously;
// never on the serving path.
type SearchLog struct {
	ID          string    `json:"id"           db:"id"`
	Query       string    `json:"query"        db:"query"`
	Type        string    `json:"type"         db:"type"`
	ResultCount int       `json:"result_count" db:"result_count"`
	DurationMs  int64     `json:"duration_ms"  db:"duration_ms"`
	IP          string    `json:"-"            db:"ip"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// TermCount is an aggregated popular search term.
type TermCount struct {
	Term  string `json:"term"  db:"term"`
	Count int    `json:"count" db:"count"`
}
