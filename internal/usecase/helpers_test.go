package usecase

import (
	"sync"
	"time"

	"SignalBoard/internal/domain/models"
	"SignalBoard/pkg/cache"
	applogger "SignalBoard/pkg/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// recorder is an in-memory domrepo.Metrics.
type recorder struct {
	mu         sync.Mutex
	fetches    map[string]int
	sinkErrors map[string]int
	passes     int
}

func newRecorder() *recorder {
	return &recorder{fetches: map[string]int{}, sinkErrors: map[string]int{}}
}

func (r *recorder) RecordFetch(signal string, status models.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[signal+"/"+string(status)]++
}
func (r *recorder) RecordFetchLatency(string, float64) {}
func (r *recorder) RecordCacheLookup(string)           {}
func (r *recorder) RecordValue(string, float64)        {}
func (r *recorder) RecordRenderPass(float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes++
}
func (r *recorder) RecordSinkError(sink string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinkErrors[sink]++
}

func (r *recorder) count(m map[string]int, key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return m[key]
}

func newTestRegistry(clock *fakeClock, rec *recorder) *Registry {
	c := cache.NewTTLCache(cache.WithClock(clock.Now), cache.WithRecorder(rec))
	return NewRegistry(c, rec, applogger.Nop())
}

func f64(v float64) *float64 { return &v }

// undated builds an ordered series without timestamps.
func undated(vs ...float64) []models.Point {
	pts := make([]models.Point, len(vs))
	for i, v := range vs {
		pts[i] = models.Point{Value: v}
	}
	return pts
}

func undatedAll(m map[string][]float64) map[string][]models.Point {
	out := make(map[string][]models.Point, len(m))
	for k, vs := range m {
		out[k] = undated(vs...)
	}
	return out
}
