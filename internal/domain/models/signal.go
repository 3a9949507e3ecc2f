package models

import "time"

// SourceKind identifies how a signal's value is obtained.
type SourceKind string

const (
	KindQuoteAPI           SourceKind = "quote_api"
	KindScrape             SourceKind = "scrape"
	KindOrbitalPropagation SourceKind = "orbital_propagation"
	KindStatic             SourceKind = "static"
)

// IsValid reports whether k is a known source kind.
func (k SourceKind) IsValid() bool {
	switch k {
	case KindQuoteAPI, KindScrape, KindOrbitalPropagation, KindStatic:
		return true
	default:
		return false
	}
}

// FormatHint tells the presentation layer how to render a value.
type FormatHint string

const (
	FormatNumber   FormatHint = "number"
	FormatCurrency FormatHint = "currency"
	FormatPercent  FormatHint = "percent"
	FormatText     FormatHint = "text"
	FormatCoords   FormatHint = "coords"
)

// Signal is a named quantity of interest. Signals are defined at start-up and never mutated.
type Signal struct {
	Name     string     `json:"name"`
	Kind     SourceKind `json:"kind"`
	Category string     `json:"category"`
	Platform string     `json:"platform"`
	Format   FormatHint `json:"format"`

	// quote_api
	Symbol   string `json:"symbol,omitempty"`
	Lookback string `json:"lookback,omitempty"` // e.g. "1mo"

	// scrape
	URL      string            `json:"url,omitempty"`
	Pattern  string            `json:"pattern,omitempty"`
	Headers  map[string]string `json:"-"`
	Degraded bool              `json:"degraded,omitempty"`

	// orbital_propagation
	TLE1 string `json:"-"`
	TLE2 string `json:"-"`

	// static
	StaticValue *float64 `json:"-"`
	StaticText  string   `json:"-"`

	// Fallback substituted when the source is unavailable.
	FallbackValue float64 `json:"fallback_value"`
	FallbackText  string  `json:"fallback_text,omitempty"`

	TTL     time.Duration `json:"ttl"`
	Timeout time.Duration `json:"timeout"`
}

// Bar is one observation returned by a quote source.
type Bar struct {
	Time  time.Time
	Open  float64
	Close float64
}

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
