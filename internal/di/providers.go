package di

import (
	"fmt"
	"time"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/domain/repository"
	"SignalBoard/internal/handler/api"
	"SignalBoard/internal/service/orbital"
	"SignalBoard/internal/service/quote"
	"SignalBoard/internal/service/ratelimit"
	"SignalBoard/internal/service/scrape"
	"SignalBoard/internal/sink"
	"SignalBoard/internal/usecase"
	"SignalBoard/pkg/cache"
	"SignalBoard/pkg/config"
	xhttp "SignalBoard/pkg/http"
	pkgkafka "SignalBoard/pkg/kafka"
	applogger "SignalBoard/pkg/logger"
	"SignalBoard/pkg/metrics"
	"SignalBoard/pkg/server"
)

// Sinks is the ordered set of snapshot sinks the scheduler pushes to.
type Sinks []repository.SnapshotSink

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the in-process signal cache.
func ProvideCache(m repository.Metrics) *cache.TTLCache {
	return cache.NewTTLCache(cache.WithRecorder(m))
}

// ProvideQuoteSource picks the configured market data provider.
func ProvideQuoteSource(cfg *config.Config) (repository.QuoteSource, error) {
	switch cfg.Quotes.Provider {
	case "", "yahoo":
		client := xhttp.NewClient(
			xhttp.WithTimeout(cfg.Cache.FetchTimeout),
			xhttp.WithUserAgent(cfg.Quotes.Yahoo.UserAgent),
		)
		return quote.NewYahooClient(cfg.Quotes.Yahoo.BaseURL, client), nil
	case "finnhub":
		if cfg.Quotes.Finnhub.APIKey == "" {
			return nil, fmt.Errorf("finnhub provider requires an api key")
		}
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.Cache.FetchTimeout))
		return quote.NewFinnhubClient(cfg.Quotes.Finnhub.BaseURL, cfg.Quotes.Finnhub.APIKey, client), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", cfg.Quotes.Provider)
	}
}

// ProvideScraper creates the rate-limited page scraper.
func ProvideScraper(cfg *config.Config, l *applogger.Logger) *scrape.Scraper {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Cache.FetchTimeout),
		xhttp.WithUserAgent(cfg.Scrape.UserAgent),
		xhttp.WithMaxBodyBytes(cfg.Scrape.MaxBytes),
	)
	return scrape.New(client, cfg.Scrape.RatePerMinute, cfg.Scrape.Burst, l)
}

// ProvidePropagator creates the orbital propagator on the wall clock.
func ProvidePropagator() repository.OrbitalSource {
	return orbital.NewPropagator(time.Now)
}

// ProvideRegistry registers every catalog signal with the fetcher for its kind.
func ProvideRegistry(
	cfg *config.Config,
	c *cache.TTLCache,
	m repository.Metrics,
	l *applogger.Logger,
	quotes repository.QuoteSource,
	scraper *scrape.Scraper,
	orbit repository.OrbitalSource,
) (*usecase.Registry, error) {
	reg := usecase.NewRegistry(c, m, l)
	quoteFetcher := quote.NewFetcher(quotes, cfg.Dashboard.CorrelationWindow)

	for _, s := range cfg.Catalog() {
		var f repository.Fetcher
		switch s.Kind {
		case models.KindQuoteAPI:
			f = quoteFetcher
		case models.KindScrape:
			f = scraper
		case models.KindOrbitalPropagation:
			if _, err := orbit.Position(s.TLE1, s.TLE2, time.Now()); err != nil {
				return nil, &models.ConfigurationError{Signal: s.Name, Reason: err.Error()}
			}
			f = orbit
		case models.KindStatic:
			f = usecase.StaticFetcher{}
		default:
			return nil, &models.ConfigurationError{Signal: s.Name, Reason: fmt.Sprintf("unknown kind %q", s.Kind)}
		}
		if err := reg.Register(s, f); err != nil {
			return nil, err
		}
	}

	l.Info("signal catalog registered",
		applogger.Int("signals", len(reg.Signals())),
		applogger.String("quote_provider", quotes.Name()),
	)
	return reg, nil
}

// ProvideDashboard creates the snapshot use case.
func ProvideDashboard(cfg *config.Config, reg *usecase.Registry, m repository.Metrics, l *applogger.Logger) *usecase.DashboardService {
	return usecase.NewDashboardService(reg, cfg.Dashboard.CorrelationWindow, m, l)
}

// ProvideHub creates the websocket hub.
func ProvideHub(cfg *config.Config, l *applogger.Logger) *api.Hub {
	return api.NewHub(cfg.Sinks.WebSocket.BufferSize, l)
}

// ProvideSinks builds the enabled sinks. The cleanup closes their connections.
func ProvideSinks(cfg *config.Config, l *applogger.Logger, hub *api.Hub) (Sinks, func(), error) {
	var (
		sinks    Sinks
		closers  []func() error
		cleanups = func() {
			for _, c := range closers {
				if err := c(); err != nil {
					l.Warn("sink close error", applogger.Error(err))
				}
			}
		}
	)

	if cfg.Sinks.Log {
		sinks = append(sinks, sink.NewLogSink(l))
	}
	if cfg.Sinks.WebSocket.Enabled {
		sinks = append(sinks, hub)
	}
	if rc := cfg.Sinks.Redis; rc.Enabled {
		store, err := cache.NewRedisStore(
			cache.WithRedisAddr(rc.Addr),
			cache.WithRedisPassword(rc.Password),
			cache.WithRedisDB(rc.DB),
			cache.WithRedisPrefix(rc.Prefix),
		)
		if err != nil {
			cleanups()
			return nil, nil, fmt.Errorf("redis sink: %w", err)
		}
		closers = append(closers, store.Close)
		sinks = append(sinks, sink.NewRedisSink(store, rc.TTL))
	}
	if kc := cfg.Sinks.Kafka; kc.Enabled {
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(kc.Brokers),
			pkgkafka.WithTopic(kc.Topic),
			pkgkafka.WithRequiredAcks(kc.RequiredAcks),
			pkgkafka.WithCompression(kc.Compression),
			pkgkafka.WithWriteTimeout(kc.WriteTimeout),
		)
		if err != nil {
			cleanups()
			return nil, nil, fmt.Errorf("kafka sink: %w", err)
		}
		closers = append(closers, producer.Close)
		sinks = append(sinks, sink.NewKafkaSink(producer))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	l.Info("sinks configured", applogger.Strings("sinks", names))
	return sinks, cleanups, nil
}

// ProvideScheduler creates the render loop.
func ProvideScheduler(cfg *config.Config, dash *usecase.DashboardService, sinks Sinks, m repository.Metrics, l *applogger.Logger) *usecase.Scheduler {
	return usecase.NewScheduler(dash, sinks, cfg.Scheduler.Interval, cfg.Scheduler.PassTimeout, m, l)
}

// ProvideRateLimiter creates the per-client API limiter, or nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Server.RateCapacity <= 0 {
		return nil
	}
	return ratelimit.New(cfg.Server.RateCapacity, cfg.Server.RateRefill)
}

// ProvideDashboardHandler creates the REST handler.
func ProvideDashboardHandler(dash *usecase.DashboardService, sched *usecase.Scheduler, rl *ratelimit.Limiter, l *applogger.Logger) *api.DashboardHandler {
	return api.NewDashboardHandler(dash, sched, rl, l)
}

// ProvideHTTPServer creates the Echo server with every handler mounted.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, dh *api.DashboardHandler, hub *api.Hub) *xhttp.Server {
	handlers := []xhttp.Handler{dh}
	if cfg.Sinks.WebSocket.Enabled {
		handlers = append(handlers, hub)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application.
func ProvideApp(l *applogger.Logger, srv *xhttp.Server, sched *usecase.Scheduler, hub *api.Hub) *server.App {
	return server.New(l, srv, sched, hub)
}
