package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteSignal(name string) models.Signal {
	return models.Signal{Name: name, Kind: models.KindQuoteAPI, TTL: time.Minute, Timeout: time.Second}
}

func TestGetAllTimeoutServesErrorFallback(t *testing.T) {
	reg := newTestRegistry(newFakeClock(), newRecorder())

	gold := quoteSignal("Gold")
	gold.Timeout = 50 * time.Millisecond
	block := make(chan struct{})
	defer close(block)
	require.NoError(t, reg.Register(gold, domrepo.FetcherFunc(func(ctx context.Context, s models.Signal) (models.FetchResult, error) {
		<-block // ignores ctx on purpose
		return models.FetchResult{Value: 1}, nil
	})))

	got, err := reg.GetAll(context.Background(), []string{"Gold"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	res := got["Gold"]
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, models.StatusErrorFallback, res.Status)
	assert.Contains(t, res.Error, "timed out")
}

func TestGetAllUnknownSignalIsConfigurationError(t *testing.T) {
	reg := newTestRegistry(newFakeClock(), newRecorder())
	var calls int32
	require.NoError(t, reg.Register(quoteSignal("Gold"), domrepo.FetcherFunc(func(context.Context, models.Signal) (models.FetchResult, error) {
		atomic.AddInt32(&calls, 1)
		return models.FetchResult{Value: 1}, nil
	})))

	_, err := reg.GetAll(context.Background(), []string{"Gold", "Unobtainium"})
	require.Error(t, err)

	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Unobtainium", cfgErr.Signal)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	assert.False(t, errors.Is(err, models.ErrSourceUnavailable))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "rejected before any fetch")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := newTestRegistry(newFakeClock(), newRecorder())
	require.NoError(t, reg.Register(quoteSignal("Gold"), StaticFetcher{}))

	err := reg.Register(quoteSignal("Gold"), StaticFetcher{})
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	assert.Error(t, reg.Register(models.Signal{}, StaticFetcher{}))
	assert.Error(t, reg.Register(quoteSignal("Silver"), nil))
}

func TestFailureAfterSuccessServesStaleValue(t *testing.T) {
	clock := newFakeClock()
	rec := newRecorder()
	reg := newTestRegistry(clock, rec)

	var fail atomic.Bool
	require.NoError(t, reg.Register(quoteSignal("Bitcoin"), domrepo.FetcherFunc(func(context.Context, models.Signal) (models.FetchResult, error) {
		if fail.Load() {
			return models.FetchResult{}, models.Unavailable("quote", errors.New("502 bad gateway"))
		}
		return models.FetchResult{Value: 75000, Previous: f64(74000)}, nil
	})))

	first, err := reg.Get(context.Background(), "Bitcoin")
	require.NoError(t, err)
	require.Equal(t, models.StatusOK, first.Status)

	fail.Store(true)
	clock.Advance(2 * time.Minute)

	stale, err := reg.Get(context.Background(), "Bitcoin")
	require.NoError(t, err)
	assert.Equal(t, models.StatusStaleFallback, stale.Status)
	assert.Equal(t, 75000.0, stale.Value)
	assert.True(t, stale.FetchedAt.After(first.FetchedAt))
	assert.Equal(t, 1, rec.count(rec.fetches, "Bitcoin/stale_fallback"))
}

func TestFallbackPolicy(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	res := Fallback(models.Signal{Name: "Gold"}, nil, boom, now)
	assert.Equal(t, models.StatusErrorFallback, res.Status)
	assert.Equal(t, 0.0, res.Value)
	assert.Equal(t, "boom", res.Error)
	assert.True(t, res.FetchedAt.Equal(now))

	text := Fallback(models.Signal{Name: "Sentiment", Format: models.FormatText}, nil, boom, now)
	assert.Equal(t, OfflineText, text.Text)

	custom := Fallback(models.Signal{Name: "Odds", FallbackValue: 50}, nil, boom, now)
	assert.Equal(t, 50.0, custom.Value)

	// an earlier fallback is not "last good"
	prev := res
	again := Fallback(models.Signal{Name: "Gold"}, &prev, boom, now)
	assert.Equal(t, models.StatusErrorFallback, again.Status)
}

func TestGetAllFetchesInParallel(t *testing.T) {
	reg := newTestRegistry(newFakeClock(), newRecorder())
	slow := domrepo.FetcherFunc(func(ctx context.Context, s models.Signal) (models.FetchResult, error) {
		time.Sleep(150 * time.Millisecond)
		return models.FetchResult{Value: 1}, nil
	})
	for _, n := range []string{"S&P 500", "Gold", "Bitcoin", "Nasdaq"} {
		require.NoError(t, reg.Register(quoteSignal(n), slow))
	}

	start := time.Now()
	got, err := reg.GetAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Less(t, time.Since(start), 450*time.Millisecond)
}

func TestCallerCancellationDoesNotAbortFetch(t *testing.T) {
	reg := newTestRegistry(newFakeClock(), newRecorder())
	require.NoError(t, reg.Register(quoteSignal("Gold"), domrepo.FetcherFunc(func(ctx context.Context, s models.Signal) (models.FetchResult, error) {
		select {
		case <-ctx.Done():
			return models.FetchResult{}, ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return models.FetchResult{Value: 4979.8}, nil
		}
	})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := reg.Get(ctx, "Gold")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, res.Status)
	assert.Equal(t, 4979.8, res.Value)
}

func TestStaticFetcher(t *testing.T) {
	res, err := StaticFetcher{}.Fetch(context.Background(), models.Signal{Name: "Odds", StaticValue: f64(84)})
	require.NoError(t, err)
	assert.Equal(t, 84.0, res.Value)

	res, err = StaticFetcher{}.Fetch(context.Background(), models.Signal{Name: "Congress", StaticText: "Cautious"})
	require.NoError(t, err)
	assert.Equal(t, "Cautious", res.Text)
}

func TestSignalsKeepRegistrationOrder(t *testing.T) {
	reg := newTestRegistry(newFakeClock(), newRecorder())
	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, reg.Register(models.Signal{Name: n}, StaticFetcher{}))
	}
	var names []string
	for _, s := range reg.Signals() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)

	_, ok := reg.Lookup("a")
	assert.True(t, ok)
}
