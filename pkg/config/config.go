package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"SignalBoard/internal/domain/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateCapacity    float64       `yaml:"rate_capacity"`
		RateRefill      float64       `yaml:"rate_refill_per_sec"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Scheduler struct {
		Interval    time.Duration `yaml:"interval"`
		PassTimeout time.Duration `yaml:"pass_timeout"`
	} `yaml:"scheduler"`
	Cache struct {
		QuoteTTL     time.Duration `yaml:"quote_ttl"`
		ScrapeTTL    time.Duration `yaml:"scrape_ttl"`
		OrbitalTTL   time.Duration `yaml:"orbital_ttl"`
		StaticTTL    time.Duration `yaml:"static_ttl"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"cache"`
	Dashboard struct {
		CorrelationWindow int `yaml:"correlation_window"`
	} `yaml:"dashboard"`
	Quotes struct {
		Provider string `yaml:"provider"` // yahoo | finnhub
		Yahoo    struct {
			BaseURL   string `yaml:"base_url"`
			UserAgent string `yaml:"user_agent"`
		} `yaml:"yahoo"`
		Finnhub struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"finnhub"`
	} `yaml:"quotes"`
	Scrape struct {
		UserAgent     string  `yaml:"user_agent"`
		MaxBytes      int64   `yaml:"max_bytes"`
		RatePerMinute float64 `yaml:"rate_per_minute"`
		Burst         int     `yaml:"burst"`
	} `yaml:"scrape"`
	Sinks struct {
		Log   bool `yaml:"log"`
		Redis struct {
			Enabled  bool          `yaml:"enabled"`
			Addr     string        `yaml:"addr"`
			Password string        `yaml:"password"`
			DB       int           `yaml:"db"`
			Prefix   string        `yaml:"prefix"`
			TTL      time.Duration `yaml:"ttl"`
		} `yaml:"redis"`
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
		WebSocket struct {
			Enabled    bool `yaml:"enabled"`
			BufferSize int  `yaml:"buffer_size"`
		} `yaml:"websocket"`
	} `yaml:"sinks"`
	Signals []SignalConfig `yaml:"signals"`
}

// SignalConfig is one catalog entry as written in YAML.
type SignalConfig struct {
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind"`
	Category     string            `yaml:"category"`
	Platform     string            `yaml:"platform"`
	Format       string            `yaml:"format"`
	Symbol       string            `yaml:"symbol"`
	Lookback     string            `yaml:"lookback"`
	URL          string            `yaml:"url"`
	Pattern      string            `yaml:"pattern"`
	Headers      map[string]string `yaml:"headers"`
	Degraded     bool              `yaml:"degraded"`
	TLE          []string          `yaml:"tle"`
	Value        *float64          `yaml:"value"`
	Text         string            `yaml:"text"`
	Fallback     float64           `yaml:"fallback"`
	FallbackText string            `yaml:"fallback_text"`
	TTL          time.Duration     `yaml:"ttl"`
	Timeout      time.Duration     `yaml:"timeout"`
}

// envOverrides is filled by envconfig from SIGNALBOARD_* variables.
type envOverrides struct {
	Environment   string        `envconfig:"ENVIRONMENT"`
	LogLevel      string        `envconfig:"LOG_LEVEL"`
	LogFormat     string        `envconfig:"LOG_FORMAT"`
	Port          int           `envconfig:"PORT"`
	Interval      time.Duration `envconfig:"INTERVAL"`
	QuoteProvider string        `envconfig:"QUOTE_PROVIDER"`
	FinnhubAPIKey string        `envconfig:"FINNHUB_API_KEY"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	KafkaBrokers  []string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic    string        `envconfig:"KAFKA_TOPIC"`
}

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "SIGNALBOARD"

// Load reads and parses a YAML configuration file on top of Default().
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, then a .env file if present, then
// overrides with SIGNALBOARD_* environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// .env is optional outside development
	_ = godotenv.Load()

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	var ov envOverrides
	if err := envconfig.Process(EnvPrefix, &ov); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}

	if ov.Environment != "" {
		c.Environment = ov.Environment
	}
	if ov.LogLevel != "" {
		c.Log.Level = ov.LogLevel
	}
	if ov.LogFormat != "" {
		c.Log.Format = ov.LogFormat
	}
	if ov.Port > 0 {
		c.Server.Port = ov.Port
	}
	if ov.Interval > 0 {
		c.Scheduler.Interval = ov.Interval
	}
	if ov.QuoteProvider != "" {
		c.Quotes.Provider = ov.QuoteProvider
	}
	if ov.FinnhubAPIKey != "" {
		c.Quotes.Finnhub.APIKey = ov.FinnhubAPIKey
	}
	if ov.RedisAddr != "" {
		c.Sinks.Redis.Addr = ov.RedisAddr
		c.Sinks.Redis.Enabled = true
	}
	if ov.RedisPassword != "" {
		c.Sinks.Redis.Password = ov.RedisPassword
	}
	if len(ov.KafkaBrokers) > 0 {
		c.Sinks.Kafka.Brokers = ov.KafkaBrokers
		c.Sinks.Kafka.Enabled = true
	}
	if ov.KafkaTopic != "" {
		c.Sinks.Kafka.Topic = ov.KafkaTopic
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}
	if c.Dashboard.CorrelationWindow < 2 {
		return fmt.Errorf("dashboard.correlation_window must be at least 2, got %d", c.Dashboard.CorrelationWindow)
	}
	switch c.Quotes.Provider {
	case "yahoo":
	case "finnhub":
		if c.Quotes.Finnhub.APIKey == "" {
			return fmt.Errorf("quotes.finnhub.api_key is required for provider 'finnhub'")
		}
	default:
		return fmt.Errorf("quotes.provider must be 'yahoo' or 'finnhub', got '%s'", c.Quotes.Provider)
	}
	if c.Sinks.Kafka.Enabled && (len(c.Sinks.Kafka.Brokers) == 0 || c.Sinks.Kafka.Topic == "") {
		return fmt.Errorf("sinks.kafka requires brokers and topic")
	}
	if len(c.Signals) == 0 {
		return fmt.Errorf("signals cannot be empty")
	}

	var errs []error
	seen := make(map[string]bool, len(c.Signals))
	for i, s := range c.Signals {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("signals[%d]: %w", i, err))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("signals[%d]: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
	}
	return errors.Join(errs...)
}

func (s SignalConfig) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	kind := models.SourceKind(s.Kind)
	if !kind.IsValid() {
		return fmt.Errorf("%q: unknown kind '%s'", s.Name, s.Kind)
	}
	switch kind {
	case models.KindQuoteAPI:
		if s.Symbol == "" {
			return fmt.Errorf("%q: symbol is required for quote_api", s.Name)
		}
	case models.KindScrape:
		if s.URL == "" {
			return fmt.Errorf("%q: url is required for scrape", s.Name)
		}
	case models.KindOrbitalPropagation:
		if len(s.TLE) != 2 {
			return fmt.Errorf("%q: tle must hold exactly two lines", s.Name)
		}
	case models.KindStatic:
		if s.Value == nil && s.Text == "" {
			return fmt.Errorf("%q: value or text is required for static", s.Name)
		}
	}
	return nil
}

// Catalog converts the configured signals into domain signals, filling TTL
// and timeout from the per-kind tiers when an entry leaves them unset.
func (c *Config) Catalog() []models.Signal {
	out := make([]models.Signal, 0, len(c.Signals))
	for _, sc := range c.Signals {
		s := models.Signal{
			Name:          sc.Name,
			Kind:          models.SourceKind(sc.Kind),
			Category:      sc.Category,
			Platform:      sc.Platform,
			Format:        models.FormatHint(sc.Format),
			Symbol:        sc.Symbol,
			Lookback:      sc.Lookback,
			URL:           sc.URL,
			Pattern:       sc.Pattern,
			Headers:       sc.Headers,
			Degraded:      sc.Degraded,
			StaticValue:   sc.Value,
			StaticText:    sc.Text,
			FallbackValue: sc.Fallback,
			FallbackText:  sc.FallbackText,
			TTL:           sc.TTL,
			Timeout:       sc.Timeout,
		}
		if len(sc.TLE) == 2 {
			s.TLE1, s.TLE2 = sc.TLE[0], sc.TLE[1]
		}
		if s.TTL <= 0 {
			s.TTL = c.tierTTL(s.Kind)
		}
		if s.Timeout <= 0 {
			s.Timeout = c.Cache.FetchTimeout
		}
		if s.Format == "" {
			s.Format = defaultFormat(s)
		}
		if s.Kind == models.KindQuoteAPI && s.Lookback == "" {
			s.Lookback = "1mo"
		}
		out = append(out, s)
	}
	return out
}

func (c *Config) tierTTL(kind models.SourceKind) time.Duration {
	switch kind {
	case models.KindQuoteAPI:
		return c.Cache.QuoteTTL
	case models.KindScrape:
		return c.Cache.ScrapeTTL
	case models.KindOrbitalPropagation:
		return c.Cache.OrbitalTTL
	default:
		return c.Cache.StaticTTL
	}
}

func defaultFormat(s models.Signal) models.FormatHint {
	switch {
	case s.Kind == models.KindOrbitalPropagation:
		return models.FormatCoords
	case s.Kind == models.KindStatic && s.StaticText != "":
		return models.FormatText
	case s.Kind == models.KindQuoteAPI:
		return models.FormatCurrency
	default:
		return models.FormatNumber
	}
}
