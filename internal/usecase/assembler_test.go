package usecase

import (
	"errors"
	"math"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChangeScenario(t *testing.T) {
	sp := models.FetchResult{Name: "S&P 500", Value: 6932.30, Previous: f64(6900.00), Status: models.StatusOK}
	gold := models.FetchResult{Name: "Gold", Value: 4979.80, Previous: f64(4979.80), Status: models.StatusOK}

	assert.InDelta(t, 0.468, ChangeOf(sp), 0.0005)

	pct, err := PercentChange(gold.Value, *gold.Previous)
	require.NoError(t, err, "a flat price is a real 0%, not a fallback")
	assert.Equal(t, 0.0, pct)
	assert.Equal(t, 0.0, ChangeOf(gold))
}

func TestPercentChangeZeroBaseline(t *testing.T) {
	_, err := PercentChange(5, 0)
	assert.True(t, errors.Is(err, models.ErrDivisionUndefined))

	got := ChangeOf(models.FetchResult{Value: 5, Previous: f64(0)})
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))

	assert.Equal(t, 0.0, SafePercentChange(0, 0))
}

func TestLabelForIsTotal(t *testing.T) {
	cases := []struct {
		name string
		in   models.FetchResult
		want models.Label
	}{
		{"text label", models.FetchResult{Text: "Cautious"}, models.LabelCautious},
		{"text case-insensitive", models.FetchResult{Text: "  eMeRgEnCy "}, models.LabelEmergency},
		{"unknown text", models.FetchResult{Text: "Lukewarm"}, models.DefaultLabel},
		{"offline text", models.FetchResult{Text: OfflineText, Status: models.StatusErrorFallback}, models.DefaultLabel},
		{"no baseline", models.FetchResult{Value: 51.2}, models.DefaultLabel},
		{"zero baseline", models.FetchResult{Value: 9, Previous: f64(0)}, models.LabelSteady},
		{"error fallback", models.FetchResult{Status: models.StatusErrorFallback}, models.DefaultLabel},
		{"stale", models.FetchResult{Value: 1, Previous: f64(1), Status: models.StatusStaleFallback}, models.LabelBottleneck},
		{"explosive", models.FetchResult{Value: 110, Previous: f64(100)}, models.LabelExplosive},
		{"hype", models.FetchResult{Value: 103, Previous: f64(100)}, models.LabelHype},
		{"bullish", models.FetchResult{Value: 100.5, Previous: f64(100)}, models.LabelBullish},
		{"steady", models.FetchResult{Value: 6932.30, Previous: f64(6932.30)}, models.LabelSteady},
		{"cautious", models.FetchResult{Value: 99, Previous: f64(100)}, models.LabelCautious},
		{"nervous", models.FetchResult{Value: 97, Previous: f64(100)}, models.LabelNervous},
		{"emergency", models.FetchResult{Value: 80, Previous: f64(100)}, models.LabelEmergency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LabelFor(tc.in))
		})
	}
}

func TestEveryLabelHasHint(t *testing.T) {
	for _, l := range models.AllLabels {
		h := l.Hint()
		assert.NotEmpty(t, h.Color, l.String())
		assert.NotEmpty(t, h.Tone, l.String())
		assert.NotEmpty(t, l.String())
	}
	assert.Equal(t, models.DefaultLabel.Hint(), models.Label(99).Hint())
	assert.Equal(t, "Stable", models.Label(99).String())
}

func TestCorrelation(t *testing.T) {
	series := undatedAll(map[string][]float64{
		"S&P 500": {100, 101, 99, 102, 104},
		"Nasdaq":  {200, 202, 198, 204, 208},
		"Gold":    {50, 49.5, 50.5, 49, 48},
		"Flat":    {7, 7, 7, 7, 7},
		"Short":   {1},
	})

	self := Correlation([]string{"S&P 500"}, series, 30)
	require.NotNil(t, self)
	assert.Equal(t, [][]float64{{1}}, self.Values)

	m := Correlation([]string{"S&P 500", "Nasdaq", "Gold", "Flat"}, series, 30)
	require.NotNil(t, m)
	spNas, _ := m.At("S&P 500", "Nasdaq")
	assert.InDelta(t, 1.0, spNas, 1e-9)
	spGold, _ := m.At("S&P 500", "Gold")
	assert.Less(t, spGold, 0.0)
	flat, _ := m.At("Flat", "Gold")
	assert.Equal(t, 0.0, flat, "zero variance")
	diag, _ := m.At("Flat", "Flat")
	assert.Equal(t, 1.0, diag)
	goldSp, _ := m.At("Gold", "S&P 500")
	assert.Equal(t, spGold, goldSp, "symmetric")

	assert.Nil(t, Correlation([]string{"S&P 500", "Short"}, series, 30))
	assert.Nil(t, Correlation(nil, series, 30))
}

func TestCorrelationUsesWindowTail(t *testing.T) {
	series := undatedAll(map[string][]float64{
		// diverge early, identical percent moves over the last four observations
		"a": {1, 5, 1, 10, 20, 40},
		"b": {9, 1, 1.5, 15, 30, 60},
	})
	m := Correlation([]string{"a", "b"}, series, 3)
	require.NotNil(t, m)
	v, _ := m.At("a", "b")
	assert.Equal(t, 0.0, v, "identical 100% changes have zero variance")

	m = Correlation([]string{"a", "b"}, series, 4)
	v, _ = m.At("a", "b")
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestCorrelationAlignsTradingCalendars(t *testing.T) {
	// two weeks from Monday: equities print on weekdays at the open, crypto
	// every day at midnight and sits flat over the weekend
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	spx := []float64{100, 102, 101, 104, 103, 99, 101, 105, 104, 108}

	var equities, crypto []models.Point
	k := 0
	for d := 0; d < 14; d++ {
		day := start.AddDate(0, 0, d)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			crypto = append(crypto, crypto[len(crypto)-1])
			crypto[len(crypto)-1].Time = day
			continue
		}
		equities = append(equities, models.Point{Time: day.Add(14*time.Hour + 30*time.Minute), Value: spx[k]})
		crypto = append(crypto, models.Point{Time: day, Value: spx[k] * 700})
		k++
	}
	require.Len(t, equities, 10)
	require.Len(t, crypto, 14)

	m := Correlation([]string{"S&P 500", "Bitcoin"}, map[string][]models.Point{
		"S&P 500": equities,
		"Bitcoin": crypto,
	}, 30)
	require.NotNil(t, m)
	v, _ := m.At("S&P 500", "Bitcoin")
	assert.InDelta(t, 1.0, v, 1e-9)

	// a window that leaves the pair no shared days has no correlation
	m = Correlation([]string{"S&P 500", "Bitcoin"}, map[string][]models.Point{
		"S&P 500": equities[:5],
		"Bitcoin": crypto[7:],
	}, 30)
	require.NotNil(t, m)
	v, _ = m.At("S&P 500", "Bitcoin")
	assert.Equal(t, 0.0, v)
}

func TestAssemble(t *testing.T) {
	signals := []models.Signal{
		{Name: "S&P 500", Category: "Markets", Platform: "Yahoo Finance", Format: models.FormatNumber},
		{Name: "Gold", Category: "Commodities", Platform: "Yahoo Finance", Format: models.FormatCurrency},
		{Name: "ISS", Category: "Space", Platform: "NORAD", Format: models.FormatCoords},
		{Name: "Split Midterm Congress", Category: "Politics", Platform: "Polymarket", Format: models.FormatText},
		{Name: "Alphabet Odds", Category: "Tech", Platform: "Polymarket", Format: models.FormatPercent},
		{Name: "WaPo Relief Fund", Category: "Media", Platform: "GoFundMe", Format: models.FormatCurrency},
		{Name: "Not Fetched"},
	}
	results := map[string]models.FetchResult{
		"S&P 500": {Value: 6932.30, Previous: f64(6900), Series: undated(6850, 6880, 6932.30), Status: models.StatusOK},
		"Gold":    {Value: 4979.80, Previous: f64(4979.80), Series: undated(4950, 4990, 4979.80), Status: models.StatusOK},
		"ISS":     {Value: 51.48, Geo: &models.GeoPoint{Lat: 51.48, Lon: -20.5}, Status: models.StatusOK},
		"Split Midterm Congress": {Text: "Cautious", Status: models.StatusOK},
		"Alphabet Odds":          {Value: 84, Status: models.StatusOK},
		"WaPo Relief Fund":       {Value: 0, Status: models.StatusErrorFallback},
	}

	snap := Assemble(signals, results, 30)

	require.Len(t, snap.Records, 6)
	assert.Len(t, snap.Metrics, 6)

	byName := map[string]models.ViewRecord{}
	for i, r := range snap.Records {
		byName[r.Signal] = r
		assert.Equal(t, signals[i].Name, r.Signal, "catalog order")
	}

	assert.Equal(t, "6,932.30", byName["S&P 500"].Display)
	assert.InDelta(t, 0.468, byName["S&P 500"].ChangePct, 0.0005)
	assert.Equal(t, models.LabelBullish, byName["S&P 500"].Label)
	assert.Equal(t, "$4,979.80", byName["Gold"].Display)
	assert.Equal(t, 0.0, byName["Gold"].ChangePct)
	assert.Equal(t, "51.48°N 20.50°W", byName["ISS"].Display)
	assert.Equal(t, models.LabelCautious, byName["Split Midterm Congress"].Label)
	assert.Equal(t, "84%", byName["Alphabet Odds"].Display)
	assert.Equal(t, OfflineText, byName["WaPo Relief Fund"].Display)
	assert.Equal(t, models.StatusErrorFallback, byName["WaPo Relief Fund"].Status)
	assert.Equal(t, models.LabelCautious.Hint(), byName["Split Midterm Congress"].Hint)

	require.NotNil(t, snap.Correlation)
	assert.Equal(t, []string{"S&P 500", "Gold"}, snap.Correlation.Names)
}

func TestDisplayNegativeCurrency(t *testing.T) {
	got := Display(models.Signal{Format: models.FormatCurrency}, models.FetchResult{Value: -1234.5})
	assert.Equal(t, "-$1,234.50", got)
}
