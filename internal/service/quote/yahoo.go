package quote

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"SignalBoard/internal/domain/models"
	xhttp "SignalBoard/pkg/http"

	"github.com/tidwall/gjson"
)

// YahooClient reads daily bars from the public chart endpoint.
type YahooClient struct {
	baseURL string
	http    *xhttp.Client
}

func NewYahooClient(baseURL string, client *xhttp.Client) *YahooClient {
	return &YahooClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (c *YahooClient) Name() string { return "yahoo" }

// Candles returns daily bars for symbol over lookback ("5d", "1mo", ...),
// oldest first. Bars with a null open or close are skipped.
func (c *YahooClient) Candles(ctx context.Context, symbol, lookback string) ([]models.Bar, error) {
	body, err := c.http.Fetch(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		QueryParams: map[string][]string{
			"range":    {lookback},
			"interval": {"1d"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return parseChart(body)
}

func parseChart(body []byte) ([]models.Bar, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo chart: malformed json")
	}
	doc := gjson.ParseBytes(body)

	if e := doc.Get("chart.error"); e.Exists() && e.Type != gjson.Null {
		return nil, fmt.Errorf("yahoo chart: %s: %s", e.Get("code").String(), e.Get("description").String())
	}

	result := doc.Get("chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("yahoo chart: empty result")
	}

	stamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	closes := quote.Get("close").Array()

	bars := make([]models.Bar, 0, len(stamps))
	for i, ts := range stamps {
		if i >= len(opens) || i >= len(closes) {
			break
		}
		if opens[i].Type != gjson.Number || closes[i].Type != gjson.Number {
			continue
		}
		bars = append(bars, models.Bar{
			Time:  time.Unix(ts.Int(), 0).UTC(),
			Open:  opens[i].Float(),
			Close: closes[i].Float(),
		})
	}
	return bars, nil
}
