package repository

import (
	"context"
	"time"

	"SignalBoard/internal/domain/models"
)

// Fetcher obtains the current value of one signal. Errors are converted to
// fallbacks by the registry, never shown to the presentation layer.
type Fetcher interface {
	Fetch(ctx context.Context, s models.Signal) (models.FetchResult, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, s models.Signal) (models.FetchResult, error)

func (f FetcherFunc) Fetch(ctx context.Context, s models.Signal) (models.FetchResult, error) {
	return f(ctx, s)
}

// QuoteSource looks up a time-ordered series of bars for a ticker-like symbol.
type QuoteSource interface {
	Name() string
	Candles(ctx context.Context, symbol string, lookback string) ([]models.Bar, error)
}

// PageSource performs a scrape-style GET and returns the body.
type PageSource interface {
	Get(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// Propagator computes a ground position from a two-line element set.
type Propagator interface {
	Position(line1, line2 string, at time.Time) (models.GeoPoint, error)
}

// OrbitalSource propagates TLEs and serves the result as a signal value.
type OrbitalSource interface {
	Propagator
	Fetcher
}

// SnapshotSink receives every snapshot produced by the scheduler.
type SnapshotSink interface {
	Name() string
	Push(ctx context.Context, s *models.Snapshot) error
}

type Metrics interface {
	RecordFetch(signal string, status models.Status)
	RecordFetchLatency(kind string, seconds float64)
	RecordCacheLookup(result string)
	RecordValue(signal string, value float64)
	RecordRenderPass(seconds float64)
	RecordSinkError(sink string)
}
