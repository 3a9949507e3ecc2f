package quote

import (
	"context"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/domain/repository"
)

// Fetcher turns a QuoteSource into a registry fetcher. The latest bar gives
// the value (close) and the change baseline (open); dated closes feed
// correlation.
type Fetcher struct {
	source repository.QuoteSource
	window int
}

// NewFetcher keeps at most window closes per result.
func NewFetcher(source repository.QuoteSource, window int) *Fetcher {
	return &Fetcher{source: source, window: window}
}

func (f *Fetcher) Fetch(ctx context.Context, s models.Signal) (models.FetchResult, error) {
	bars, err := f.source.Candles(ctx, s.Symbol, s.Lookback)
	if err != nil {
		return models.FetchResult{}, models.Unavailable(f.source.Name(), err)
	}
	if len(bars) == 0 {
		return models.FetchResult{}, models.Unavailable(f.source.Name(), nil)
	}

	last := bars[len(bars)-1]
	open := last.Open

	if f.window > 0 && len(bars) > f.window {
		bars = bars[len(bars)-f.window:]
	}
	series := make([]models.Point, len(bars))
	for i, b := range bars {
		series[i] = models.Point{Time: b.Time, Value: b.Close}
	}

	return models.FetchResult{
		Name:     s.Name,
		Value:    last.Close,
		Previous: &open,
		Series:   series,
		Status:   models.StatusOK,
	}, nil
}
