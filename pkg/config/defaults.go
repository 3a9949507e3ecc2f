package config

import "time"

// Default returns the built-in configuration. Load overlays the YAML file on
// top of it, so a file only has to name what it changes. A file that lists
// signals replaces the default catalog entirely.
func Default() *Config {
	c := &Config{Environment: "development"}

	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"

	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 15 * time.Second
	c.Server.RateCapacity = 20
	c.Server.RateRefill = 5

	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"

	c.Scheduler.Interval = 10 * time.Second
	c.Scheduler.PassTimeout = 30 * time.Second

	c.Cache.QuoteTTL = 60 * time.Second
	c.Cache.ScrapeTTL = 900 * time.Second
	c.Cache.OrbitalTTL = 10 * time.Second
	c.Cache.StaticTTL = time.Hour
	c.Cache.FetchTimeout = 5 * time.Second

	c.Dashboard.CorrelationWindow = 30

	c.Quotes.Provider = "yahoo"
	c.Quotes.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	c.Quotes.Yahoo.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) SignalBoard/1.0"
	c.Quotes.Finnhub.BaseURL = "https://finnhub.io/api/v1"

	c.Scrape.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) SignalBoard/1.0"
	c.Scrape.MaxBytes = 2 << 20
	c.Scrape.RatePerMinute = 6
	c.Scrape.Burst = 1

	c.Sinks.Log = true
	c.Sinks.Redis.Addr = "localhost:6379"
	c.Sinks.Redis.Prefix = "signalboard"
	c.Sinks.Redis.TTL = 5 * time.Minute
	c.Sinks.Kafka.Topic = "signalboard.snapshots"
	c.Sinks.Kafka.RequiredAcks = 1
	c.Sinks.Kafka.Compression = "snappy"
	c.Sinks.Kafka.WriteTimeout = 5 * time.Second
	c.Sinks.WebSocket.Enabled = true
	c.Sinks.WebSocket.BufferSize = 8

	c.Signals = DefaultSignals()
	return c
}

func f64(v float64) *float64 { return &v }

// ISS elements from a 2008 epoch. Drag makes them useless years later, so the
// shipped ISS signal is degraded until a current set is configured.
const (
	issTLE1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issTLE2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

// DefaultSignals is the catalog the dashboard ships with.
func DefaultSignals() []SignalConfig {
	return []SignalConfig{
		{Name: "S&P 500", Kind: "quote_api", Category: "Markets", Platform: "Yahoo Finance", Symbol: "^GSPC", Format: "number"},
		{Name: "Gold", Kind: "quote_api", Category: "Commodities", Platform: "Yahoo Finance", Symbol: "GC=F", Format: "currency"},
		{Name: "Bitcoin", Kind: "quote_api", Category: "Crypto", Platform: "Yahoo Finance", Symbol: "BTC-USD", Format: "currency"},
		{Name: "Nasdaq", Kind: "quote_api", Category: "Markets", Platform: "Yahoo Finance", Symbol: "^IXIC", Format: "number"},
		{
			Name: "WaPo Relief Fund", Kind: "scrape", Category: "Media", Platform: "GoFundMe",
			URL:      "https://www.gofundme.com/f/washington-post-staff-relief-fund",
			Pattern:  `\$([\d,]+(?:\.\d+)?)\s+raised`,
			Format:   "currency",
			Degraded: true,
		},
		{
			Name: "Kickstarter LODGE", Kind: "scrape", Category: "Tech", Platform: "Kickstarter",
			URL:      "https://www.kickstarter.com/projects/lodge/lodge",
			Pattern:  `\$([\d,]+)\s+pledged`,
			Format:   "currency",
			Degraded: true,
		},
		{Name: "ISS", Kind: "orbital_propagation", Category: "Space", Platform: "NORAD", TLE: []string{issTLE1, issTLE2}, Degraded: true},
		{Name: "Split Midterm Congress", Kind: "static", Category: "Politics", Platform: "Polymarket", Text: "Cautious"},
		{Name: "High Industry Layoffs", Kind: "static", Category: "Media", Platform: "GoFundMe", Text: "Emergency"},
		{Name: "Mecha Comet Hardware", Kind: "static", Category: "Tech", Platform: "Kickstarter", Text: "Explosive"},
		{Name: "$75k Consolidation", Kind: "static", Category: "Crypto", Platform: "Polymarket", Text: "Bullish"},
		{Name: "BTC Prediction", Kind: "static", Category: "Crypto", Platform: "Polymarket", Value: f64(75000), Format: "currency"},
		{Name: "Alphabet Odds", Kind: "static", Category: "Tech", Platform: "Polymarket", Value: f64(84), Format: "percent"},
		{Name: "US Strike Odds", Kind: "static", Category: "Politics", Platform: "Polymarket", Value: f64(50), Format: "percent"},
	}
}
