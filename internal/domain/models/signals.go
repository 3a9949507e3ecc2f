package models

import "time"

// Status describes how a FetchResult was obtained.
type Status string

const (
	StatusOK            Status = "ok"
	StatusStaleFallback Status = "stale_fallback"
	StatusErrorFallback Status = "error_fallback"
)

// FetchResult is the outcome of one attempt to obtain a signal's value.
// Results are immutable once handed to the cache.
type FetchResult struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Text      string    `json:"text,omitempty"`
	Previous  *float64  `json:"previous_value,omitempty"`
	Geo       *GeoPoint `json:"geo,omitempty"`
	Series    []Point   `json:"series,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// IsText reports whether the payload is a string rather than a number.
func (r FetchResult) IsText() bool { return r.Text != "" }

// Point is one dated observation of a series. A zero Time means the series
// is ordered but undated.
type Point struct {
	Time  time.Time `json:"t,omitempty"`
	Value float64   `json:"v"`
}

// CacheEntry wraps a FetchResult with its expiry. Entries are replaced, never mutated.
type CacheEntry struct {
	Result    FetchResult
	ExpiresAt time.Time
}

// Fresh reports whether the entry is still valid at now.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// ViewRecord is a denormalized display row derived from FetchResults.
type ViewRecord struct {
	Category  string     `json:"category"`
	Platform  string     `json:"platform"`
	Signal    string     `json:"signal"`
	Display   string     `json:"display"`
	Value     float64    `json:"value"`
	ChangePct float64    `json:"change_pct"`
	Status    Status     `json:"status"`
	Label     Label      `json:"label"`
	Hint      RenderHint `json:"hint"`
}

// Matrix is a labelled square matrix.
type Matrix struct {
	Names  []string    `json:"names"`
	Values [][]float64 `json:"values"`
}

// At returns the cell for the pair (a, b), or false if either name is absent.
func (m *Matrix) At(a, b string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	i, j := -1, -1
	for k, n := range m.Names {
		if n == a {
			i = k
		}
		if n == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Snapshot is everything the presentation host needs for one render tick.
type Snapshot struct {
	ID          string                 `json:"id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Metrics     map[string]FetchResult `json:"metrics"`
	Records     []ViewRecord           `json:"view_records"`
	Correlation *Matrix                `json:"correlation_matrix,omitempty"`
}
