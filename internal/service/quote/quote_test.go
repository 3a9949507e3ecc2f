package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"
	xhttp "SignalBoard/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{"chart":{"result":[{"meta":{"symbol":"^GSPC"},
"timestamp":[1769990400,1770076800,1770163200],
"indicators":{"quote":[{"open":[6850.1,null,6900.0],"close":[6880.5,6895.2,6932.3]}]}}],"error":null}}`

func TestYahooCandlesParsesChart(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotRange = r.URL.Query().Get("range")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL+"/", xhttp.NewClient(xhttp.WithTimeout(time.Second)))
	bars, err := c.Candles(context.Background(), "^GSPC", "1mo")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/%5EGSPC", gotPath)
	assert.Equal(t, "1mo", gotRange)
	require.Len(t, bars, 2, "bar with null open is skipped")
	assert.Equal(t, 6900.0, bars[1].Open)
	assert.Equal(t, 6932.3, bars[1].Close)
	assert.Equal(t, time.Unix(1770163200, 0).UTC(), bars[1].Time)
}

func TestYahooCandlesSurfacesErrors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"chart error": {http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		"malformed":   {http.StatusOK, `{"chart":`},
		"empty":       {http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		"http 500":    {http.StatusInternalServerError, `oops`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewYahooClient(srv.URL, xhttp.NewClient()).Candles(context.Background(), "GC=F", "5d")
			assert.Error(t, err)
		})
	}
}

func TestFinnhubCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/candle", r.URL.Path)
		assert.Equal(t, "D", r.URL.Query().Get("resolution"))
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		if r.URL.Query().Get("symbol") == "NONE" {
			_, _ = w.Write([]byte(`{"s":"no_data"}`))
			return
		}
		_, _ = w.Write([]byte(`{"s":"ok","t":[1770076800,1770163200],"o":[100,101],"c":[101,103]}`))
	}))
	defer srv.Close()

	c := NewFinnhubClient(srv.URL, "secret", xhttp.NewClient())
	bars, err := c.Candles(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 103.0, bars[1].Close)

	_, err = c.Candles(context.Background(), "NONE", "1mo")
	assert.Error(t, err)
}

func TestParseLookback(t *testing.T) {
	d, err := ParseLookback("5d")
	require.NoError(t, err)
	assert.Equal(t, 5*24*time.Hour, d)

	d, err = ParseLookback("1mo")
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, d)

	for _, bad := range []string{"", "mo", "0d", "3x"} {
		_, err := ParseLookback(bad)
		assert.Error(t, err, bad)
	}
}

type stubSource struct {
	bars []models.Bar
	err  error
}

func (s stubSource) Name() string { return "stub" }
func (s stubSource) Candles(context.Context, string, string) ([]models.Bar, error) {
	return s.bars, s.err
}

func TestFetcherUsesLatestBar(t *testing.T) {
	day := time.Date(2026, 2, 2, 14, 30, 0, 0, time.UTC)
	bars := []models.Bar{
		{Time: day, Open: 6800, Close: 6850},
		{Time: day.AddDate(0, 0, 1), Open: 6860, Close: 6880},
		{Time: day.AddDate(0, 0, 2), Open: 6900, Close: 6932.30},
	}
	f := NewFetcher(stubSource{bars: bars}, 2)

	res, err := f.Fetch(context.Background(), models.Signal{Name: "S&P 500", Symbol: "^GSPC"})
	require.NoError(t, err)

	assert.Equal(t, "S&P 500", res.Name)
	assert.Equal(t, 6932.30, res.Value)
	require.NotNil(t, res.Previous)
	assert.Equal(t, 6900.0, *res.Previous)
	assert.Equal(t, []models.Point{
		{Time: day.AddDate(0, 0, 1), Value: 6880},
		{Time: day.AddDate(0, 0, 2), Value: 6932.30},
	}, res.Series)
	assert.Equal(t, models.StatusOK, res.Status)
}

func TestFetcherUnavailable(t *testing.T) {
	_, err := NewFetcher(stubSource{}, 30).Fetch(context.Background(), models.Signal{Name: "Gold"})
	assert.True(t, errors.Is(err, models.ErrSourceUnavailable))

	_, err = NewFetcher(stubSource{err: errors.New("dial tcp: timeout")}, 30).Fetch(context.Background(), models.Signal{Name: "Gold"})
	assert.True(t, errors.Is(err, models.ErrSourceUnavailable))
}
