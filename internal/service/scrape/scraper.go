package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/domain/repository"
	applogger "SignalBoard/pkg/logger"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// Scraper extracts one number from a public page. Requests to the same host
// share a rate limiter so several signals on one site stay polite.
type Scraper struct {
	pages repository.PageSource
	log   *applogger.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int

	patterns sync.Map // pattern string -> *regexp.Regexp
}

// New builds a scraper allowing perMinute requests per host.
func New(pages repository.PageSource, perMinute float64, burst int, l *applogger.Logger) *Scraper {
	if burst < 1 {
		burst = 1
	}
	lim := rate.Inf
	if perMinute > 0 {
		lim = rate.Limit(perMinute / 60)
	}
	return &Scraper{
		pages:    pages,
		log:      l,
		limiters: make(map[string]*rate.Limiter),
		limit:    lim,
		burst:    burst,
	}
}

func (s *Scraper) limiterFor(host string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[host]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[host] = l
	}
	return l
}

func (s *Scraper) Fetch(ctx context.Context, sig models.Signal) (models.FetchResult, error) {
	if sig.Degraded {
		return models.FetchResult{}, models.Unavailable("scrape", fmt.Errorf("%s is marked degraded", sig.Name))
	}

	re, err := s.compile(sig.Pattern)
	if err != nil {
		return models.FetchResult{}, models.Unavailable("scrape", err)
	}

	u, err := url.Parse(sig.URL)
	if err != nil || u.Host == "" {
		return models.FetchResult{}, models.Unavailable("scrape", fmt.Errorf("bad url %q", sig.URL))
	}
	if err := s.limiterFor(u.Host).Wait(ctx); err != nil {
		return models.FetchResult{}, models.Unavailable("scrape", fmt.Errorf("rate limit %s: %w", u.Host, err))
	}

	body, err := s.pages.Get(ctx, sig.URL, sig.Headers)
	if err != nil {
		return models.FetchResult{}, models.Unavailable("scrape", err)
	}

	text, err := VisibleText(bytes.NewReader(body))
	if err != nil {
		return models.FetchResult{}, models.Unavailable("scrape", err)
	}

	v, err := Extract(re, text)
	if err != nil {
		s.log.Debug("scrape pattern missed",
			applogger.String("signal", sig.Name),
			applogger.String("host", u.Host),
			applogger.Int("text_len", len(text)),
		)
		return models.FetchResult{}, models.Unavailable("scrape", err)
	}

	return models.FetchResult{Name: sig.Name, Value: v, Status: models.StatusOK}, nil
}

func (s *Scraper) compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	if re, ok := s.patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q has no capture group", pattern)
	}
	s.patterns.Store(pattern, re)
	return re, nil
}

// VisibleText returns the page's text nodes joined by single spaces,
// skipping script, style and noscript contents.
func VisibleText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(b.String()), nil
			}
			return "", fmt.Errorf("tokenize: %w", z.Err())
		case html.StartTagToken:
			if hidden(z) {
				skip++
			}
		case html.EndTagToken:
			if hidden(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if t := strings.Join(strings.Fields(string(z.Text())), " "); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
	}
}

func hidden(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

var numberNoise = strings.NewReplacer("$", "", ",", "", "%", "", " ", "")

// Extract applies re to text and parses its first capture group as a number.
func Extract(re *regexp.Regexp, text string) (float64, error) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, fmt.Errorf("pattern %q did not match", re.String())
	}
	v, err := strconv.ParseFloat(numberNoise.Replace(m[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", m[1], err)
	}
	return v, nil
}
