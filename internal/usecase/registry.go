package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	"SignalBoard/pkg/cache"
	applogger "SignalBoard/pkg/logger"
)

// OfflineText is the fallback shown for text signals without one of their own.
const OfflineText = "Offline"

// DefaultFetchTimeout bounds a fetch whose signal leaves Timeout unset.
const DefaultFetchTimeout = 5 * time.Second

// Registry maps signal names to fetchers and serves their results through
// the TTL cache. Source errors never leave it: they become fallbacks.
type Registry struct {
	mu       sync.RWMutex
	signals  map[string]models.Signal
	fetchers map[string]domrepo.Fetcher
	order    []string

	cache   *cache.TTLCache
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewRegistry(c *cache.TTLCache, metrics domrepo.Metrics, l *applogger.Logger) *Registry {
	return &Registry{
		signals:  make(map[string]models.Signal),
		fetchers: make(map[string]domrepo.Fetcher),
		cache:    c,
		metrics:  metrics,
		log:      l,
	}
}

// Register adds a signal. Names must be unique.
func (r *Registry) Register(s models.Signal, f domrepo.Fetcher) error {
	if s.Name == "" {
		return &models.ConfigurationError{Reason: "signal name is empty"}
	}
	if f == nil {
		return &models.ConfigurationError{Signal: s.Name, Reason: "nil fetcher"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.signals[s.Name]; dup {
		return &models.ConfigurationError{Signal: s.Name, Reason: "already registered"}
	}
	r.signals[s.Name] = s
	r.fetchers[s.Name] = f
	r.order = append(r.order, s.Name)
	return nil
}

// Signals returns the catalog in registration order.
func (r *Registry) Signals() []models.Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Signal, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.signals[name])
	}
	return out
}

// Lookup returns the signal registered under name.
func (r *Registry) Lookup(name string) (models.Signal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.signals[name]
	return s, ok
}

// Get returns the result for one signal.
func (r *Registry) Get(ctx context.Context, name string) (models.FetchResult, error) {
	res, err := r.GetAll(ctx, []string{name})
	if err != nil {
		return models.FetchResult{}, err
	}
	return res[name], nil
}

// GetAll returns exactly one result per requested name; no names means the
// whole catalog. Unknown names are rejected before any fetch starts.
func (r *Registry) GetAll(ctx context.Context, names []string) (map[string]models.FetchResult, error) {
	type job struct {
		signal  models.Signal
		fetcher domrepo.Fetcher
	}

	r.mu.RLock()
	if len(names) == 0 {
		names = append([]string(nil), r.order...)
	}
	jobs := make([]job, 0, len(names))
	for _, name := range names {
		s, ok := r.signals[name]
		if !ok {
			r.mu.RUnlock()
			return nil, models.UnknownSignal(name)
		}
		jobs = append(jobs, job{signal: s, fetcher: r.fetchers[name]})
	}
	r.mu.RUnlock()

	type item struct {
		name string
		res  models.FetchResult
	}
	ch := make(chan item, len(jobs))
	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)
		go func(s models.Signal, f domrepo.Fetcher) {
			defer wg.Done()
			res := r.cache.GetOrFetch(s.Name, s.TTL, func() models.FetchResult {
				return r.invoke(ctx, s, f)
			})
			ch <- item{s.Name, res}
		}(j.signal, j.fetcher)
	}

	go func() { wg.Wait(); close(ch) }()

	out := make(map[string]models.FetchResult, len(jobs))
	for it := range ch {
		out[it.name] = it.res
	}
	return out, nil
}

// invoke runs one fetch under the signal's timeout. The fetch context is
// detached from ctx: a shared in-flight fetch must not die with whichever
// caller happened to start it.
func (r *Registry) invoke(ctx context.Context, s models.Signal, f domrepo.Fetcher) models.FetchResult {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	type outcome struct {
		res models.FetchResult
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		res, err := f.Fetch(fctx, s)
		done <- outcome{res, err}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-fctx.Done():
		o.err = models.Unavailable(string(s.Kind), fmt.Errorf("timed out after %s", timeout))
	}
	r.metrics.RecordFetchLatency(string(s.Kind), time.Since(start).Seconds())

	now := r.cache.Now()
	var res models.FetchResult
	if o.err != nil {
		var prev *models.FetchResult
		if e, ok := r.cache.Peek(s.Name); ok {
			prev = &e.Result
		}
		res = Fallback(s, prev, o.err, now)
		r.log.Warn("fetch failed, serving fallback",
			applogger.String("signal", s.Name),
			applogger.String("kind", string(s.Kind)),
			applogger.String("status", string(res.Status)),
			applogger.Error(o.err),
		)
	} else {
		res = o.res
		res.Name = s.Name
		res.Status = models.StatusOK
		res.Error = ""
		if res.FetchedAt.IsZero() {
			res.FetchedAt = now
		}
	}

	r.metrics.RecordFetch(s.Name, res.Status)
	if !res.IsText() {
		r.metrics.RecordValue(s.Name, res.Value)
	}
	return res
}

// Fallback converts a failed fetch into a result. A previous good value is
// carried forward as stale_fallback; otherwise the signal's documented
// default is served as error_fallback.
func Fallback(s models.Signal, prev *models.FetchResult, err error, now time.Time) models.FetchResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	if prev != nil && prev.Status != models.StatusErrorFallback {
		stale := *prev
		stale.Name = s.Name
		stale.Status = models.StatusStaleFallback
		stale.FetchedAt = now
		stale.Error = msg
		return stale
	}

	res := models.FetchResult{
		Name:      s.Name,
		Value:     s.FallbackValue,
		Text:      s.FallbackText,
		FetchedAt: now,
		Status:    models.StatusErrorFallback,
		Error:     msg,
	}
	if res.Text == "" && s.Format == models.FormatText {
		res.Text = OfflineText
	}
	return res
}

// StaticFetcher serves a signal's configured value. It never fails.
type StaticFetcher struct{}

func (StaticFetcher) Fetch(_ context.Context, s models.Signal) (models.FetchResult, error) {
	res := models.FetchResult{Name: s.Name, Text: s.StaticText, Status: models.StatusOK}
	if s.StaticValue != nil {
		res.Value = *s.StaticValue
	}
	return res, nil
}
