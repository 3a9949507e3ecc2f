package quote

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SignalBoard/internal/domain/models"
	xhttp "SignalBoard/pkg/http"
)

// FinnhubClient reads daily candles from the Finnhub REST API.
type FinnhubClient struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	now     func() time.Time
}

func NewFinnhubClient(baseURL, apiKey string, client *xhttp.Client) *FinnhubClient {
	return &FinnhubClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    client,
		now:     time.Now,
	}
}

func (c *FinnhubClient) Name() string { return "finnhub" }

type fhCandles struct {
	S string    `json:"s"` // "ok" | "no_data"
	T []int64   `json:"t"`
	O []float64 `json:"o"`
	C []float64 `json:"c"`
}

func (c *FinnhubClient) Candles(ctx context.Context, symbol, lookback string) ([]models.Bar, error) {
	span, err := ParseLookback(lookback)
	if err != nil {
		return nil, err
	}
	to := c.now()
	from := to.Add(-span)

	var resp fhCandles
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub candle %s: %w", symbol, err)
	}
	if resp.S != "ok" {
		return nil, fmt.Errorf("finnhub candle %s: status %q", symbol, resp.S)
	}
	if len(resp.T) != len(resp.O) || len(resp.T) != len(resp.C) {
		return nil, fmt.Errorf("finnhub candle %s: ragged arrays", symbol)
	}

	bars := make([]models.Bar, len(resp.T))
	for i := range resp.T {
		bars[i] = models.Bar{Time: time.Unix(resp.T[i], 0).UTC(), Open: resp.O[i], Close: resp.C[i]}
	}
	return bars, nil
}

// ParseLookback converts a chart range such as "5d", "1mo" or "1y" to a duration.
func ParseLookback(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	unit := strings.TrimLeft(s, "0123456789")
	n, err := strconv.Atoi(strings.TrimSuffix(s, unit))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid lookback %q", s)
	}
	day := 24 * time.Hour
	switch unit {
	case "d":
		return time.Duration(n) * day, nil
	case "wk":
		return time.Duration(n) * 7 * day, nil
	case "mo":
		return time.Duration(n) * 30 * day, nil
	case "y":
		return time.Duration(n) * 365 * day, nil
	default:
		return 0, fmt.Errorf("invalid lookback unit %q", unit)
	}
}
