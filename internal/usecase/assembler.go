package usecase

import (
	"fmt"
	"math"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/services/features"

	"github.com/dustin/go-humanize"
)

// DefaultCorrelationWindow is the number of observations kept per series.
const DefaultCorrelationWindow = 30

// PercentChange is (value-previous)/previous*100, or ErrDivisionUndefined
// when previous is zero.
func PercentChange(value, previous float64) (float64, error) {
	return features.PercentChange(value, previous)
}

// SafePercentChange substitutes 0 for an undefined or non-finite change.
func SafePercentChange(value, previous float64) float64 {
	return features.SafePercentChange(value, previous)
}

// ChangeOf returns the result's percent change against its previous value,
// or 0 when it has none.
func ChangeOf(r models.FetchResult) float64 {
	if r.Previous == nil || r.IsText() {
		return 0
	}
	return SafePercentChange(r.Value, *r.Previous)
}

// LabelFor maps any result to a label. Text payloads naming a label map to
// it, numbers with a baseline map by change band, stale numbers are a
// Bottleneck, and everything else gets the default label.
func LabelFor(r models.FetchResult) models.Label {
	if r.IsText() {
		l, _ := models.ParseLabel(r.Text)
		return l
	}
	switch r.Status {
	case models.StatusErrorFallback:
		return models.DefaultLabel
	case models.StatusStaleFallback:
		return models.LabelBottleneck
	}
	if r.Previous == nil {
		return models.DefaultLabel
	}
	return labelForChange(ChangeOf(r))
}

func labelForChange(pct float64) models.Label {
	switch {
	case pct >= 5:
		return models.LabelExplosive
	case pct >= 2:
		return models.LabelHype
	case pct >= 0.25:
		return models.LabelBullish
	case pct > -0.25:
		return models.LabelSteady
	case pct > -2:
		return models.LabelCautious
	case pct > -5:
		return models.LabelNervous
	default:
		return models.LabelEmergency
	}
}

// Correlation computes pairwise Pearson correlations of period-over-period
// percent changes over the last window observations of each series. Dated
// series are compared on the days both have. Any series with fewer than two
// observations makes the matrix undefined (nil).
func Correlation(names []string, series map[string][]models.Point, window int) *models.Matrix {
	if len(names) == 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultCorrelationWindow
	}

	tails := make([][]models.Point, len(names))
	for i, name := range names {
		s := features.Tail(series[name], window)
		if len(s) < 2 {
			return nil
		}
		tails[i] = s
	}

	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(names))
	}
	for i := range names {
		values[i][i] = 1
		for j := i + 1; j < len(names); j++ {
			x, y := features.Align(tails[i], tails[j])
			c := features.Pearson(features.PctChanges(x), features.PctChanges(y))
			values[i][j], values[j][i] = c, c
		}
	}
	return &models.Matrix{Names: append([]string(nil), names...), Values: values}
}

// Assemble derives the display snapshot from already-resolved results. It
// performs no I/O; ID and GeneratedAt are left for the caller.
func Assemble(signals []models.Signal, results map[string]models.FetchResult, window int) models.Snapshot {
	snap := models.Snapshot{
		Metrics: make(map[string]models.FetchResult, len(results)),
		Records: make([]models.ViewRecord, 0, len(signals)),
	}

	var corrNames []string
	series := make(map[string][]models.Point)

	for _, s := range signals {
		r, ok := results[s.Name]
		if !ok {
			continue
		}
		snap.Metrics[s.Name] = r

		label := LabelFor(r)
		snap.Records = append(snap.Records, models.ViewRecord{
			Category:  s.Category,
			Platform:  s.Platform,
			Signal:    s.Name,
			Display:   Display(s, r),
			Value:     r.Value,
			ChangePct: ChangeOf(r),
			Status:    r.Status,
			Label:     label,
			Hint:      label.Hint(),
		})

		if len(r.Series) > 0 {
			corrNames = append(corrNames, s.Name)
			series[s.Name] = r.Series
		}
	}

	snap.Correlation = Correlation(corrNames, series, window)
	return snap
}

// Display renders a result according to its signal's format hint.
func Display(s models.Signal, r models.FetchResult) string {
	if r.IsText() {
		return r.Text
	}
	if r.Status == models.StatusErrorFallback {
		return OfflineText
	}

	switch s.Format {
	case models.FormatCurrency:
		if r.Value < 0 {
			return "-$" + humanize.FormatFloat("#,###.##", -r.Value)
		}
		return "$" + humanize.FormatFloat("#,###.##", r.Value)
	case models.FormatPercent:
		return humanize.CommafWithDigits(r.Value, 2) + "%"
	case models.FormatCoords:
		if r.Geo == nil {
			return humanize.CommafWithDigits(r.Value, 4)
		}
		return formatCoords(*r.Geo)
	default:
		return humanize.FormatFloat("#,###.##", r.Value)
	}
}

func formatCoords(g models.GeoPoint) string {
	ns, ew := "N", "E"
	if g.Lat < 0 {
		ns = "S"
	}
	if g.Lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", math.Abs(g.Lat), ns, math.Abs(g.Lon), ew)
}
