package features

import (
	"math"
	"time"

	"SignalBoard/internal/domain/models"
)

// PercentChange returns (value-previous)/previous*100. A zero baseline has no
// defined change and yields models.ErrDivisionUndefined.
func PercentChange(value, previous float64) (float64, error) {
	if previous == 0 {
		return 0, models.ErrDivisionUndefined
	}
	return (value - previous) / previous * 100, nil
}

// SafePercentChange is PercentChange with 0 substituted for undefined or
// non-finite results.
func SafePercentChange(value, previous float64) float64 {
	pct, err := PercentChange(value, previous)
	if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// PctChanges computes period-over-period percent changes. It returns a slice
// of length len(series)-1, or nil if there is insufficient data.
func PctChanges(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		out = append(out, SafePercentChange(series[i], series[i-1]))
	}
	return out
}

// Tail returns the last n elements of xs, or xs itself when shorter.
func Tail[T any](xs []T, n int) []T {
	if n <= 0 || len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

// Pearson is the sample correlation of x and y over their common tail.
// Fewer than two points or a zero-variance side gives 0.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return 0
	}
	x, y = Tail(x, n), Tail(y, n)

	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += x[i]
		sy += y[i]
	}
	mx, my := sx/float64(n), sy/float64(n)

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	r := cov / math.Sqrt(vx*vy)
	// clamp rounding drift
	return math.Max(-1, math.Min(1, r))
}

// Align pairs two series observation by observation. When both are dated,
// only calendar days (UTC) present in both are kept, so a seven-day series
// lines up with a weekday-only one. Otherwise they are matched from the end.
func Align(a, b []models.Point) (x, y []float64) {
	if !dated(a) || !dated(b) {
		n := min(len(a), len(b))
		return Values(Tail(a, n)), Values(Tail(b, n))
	}

	byDay := make(map[string]float64, len(b))
	for _, p := range b {
		byDay[dayKey(p.Time)] = p.Value
	}
	seen := make(map[string]bool, len(a))
	for i := len(a) - 1; i >= 0; i-- {
		// the last observation of a day wins
		k := dayKey(a[i].Time)
		if seen[k] {
			continue
		}
		seen[k] = true
		if v, ok := byDay[k]; ok {
			x = append(x, a[i].Value)
			y = append(y, v)
		}
	}
	reverse(x)
	reverse(y)
	return x, y
}

// Values strips the timestamps from a series.
func Values(pts []models.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

func dated(pts []models.Point) bool {
	for _, p := range pts {
		if p.Time.IsZero() {
			return false
		}
	}
	return len(pts) > 0
}

func dayKey(t time.Time) string { return t.UTC().Format(time.DateOnly) }

func reverse(xs []float64) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
