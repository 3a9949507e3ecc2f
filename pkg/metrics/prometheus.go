package metrics

import (
	"SignalBoard/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	lastValue     *prometheus.GaugeVec
	renderPasses  prometheus.Counter
	renderLatency prometheus.Histogram
	sinkErrors    *prometheus.CounterVec
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_fetches_total",
				Help: "Total number of signal fetches by outcome",
			},
			[]string{"signal", "status"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalboard_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_cache_lookups_total",
				Help: "TTL cache lookups by result (hit, miss, shared)",
			},
			[]string{"result"},
		),
		lastValue: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalboard_last_value",
				Help: "Last numeric value served for a signal",
			},
			[]string{"signal"},
		),
		renderPasses: f.NewCounter(
			prometheus.CounterOpts{
				Name: "signalboard_render_passes_total",
				Help: "Total number of snapshots assembled",
			},
		),
		renderLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signalboard_render_duration_seconds",
				Help:    "Duration of a full snapshot pass in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		sinkErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalboard_sink_errors_total",
				Help: "Snapshot pushes that failed, by sink",
			},
			[]string{"sink"},
		),
	}
}

// RecordFetch counts one fetch outcome for a signal.
func (r *Recorder) RecordFetch(signal string, status models.Status) {
	r.fetchesTotal.WithLabelValues(signal, string(status)).Inc()
}

// RecordFetchLatency records upstream latency in seconds for a source kind.
func (r *Recorder) RecordFetchLatency(kind string, seconds float64) {
	r.fetchLatency.WithLabelValues(kind).Observe(seconds)
}

func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordValue records the last value for a signal.
func (r *Recorder) RecordValue(signal string, value float64) {
	r.lastValue.WithLabelValues(signal).Set(value)
}

// RecordRenderPass counts a snapshot pass and its duration.
func (r *Recorder) RecordRenderPass(seconds float64) {
	r.renderPasses.Inc()
	r.renderLatency.Observe(seconds)
}

func (r *Recorder) RecordSinkError(sink string) {
	r.sinkErrors.WithLabelValues(sink).Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordFetch(string, models.Status)   {}
func (Nop) RecordFetchLatency(string, float64) {}
func (Nop) RecordCacheLookup(string)           {}
func (Nop) RecordValue(string, float64)        {}
func (Nop) RecordRenderPass(float64)           {}
func (Nop) RecordSinkError(string)             {}
