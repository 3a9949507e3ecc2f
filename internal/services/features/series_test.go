package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentChange(t *testing.T) {
	pct, err := PercentChange(6932.30, 6900)
	require.NoError(t, err)
	assert.InDelta(t, 0.468, pct, 0.001)

	_, err = PercentChange(10, 0)
	assert.True(t, errors.Is(err, models.ErrDivisionUndefined))

	assert.Equal(t, 0.0, SafePercentChange(10, 0))
	assert.Equal(t, 0.0, SafePercentChange(math.Inf(1), 1))
	assert.Equal(t, 0.0, SafePercentChange(math.NaN(), 1))
}

func TestPctChanges(t *testing.T) {
	assert.Nil(t, PctChanges([]float64{1}))
	assert.Equal(t, []float64{100, -50, 0}, PctChanges([]float64{1, 2, 1, 1}))
	assert.Equal(t, []float64{0, 100}, PctChanges([]float64{0, 5, 10}))
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, Pearson(x, x), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, []float64{10, 8, 6, 4, 2}), 1e-12)
	assert.Equal(t, 0.0, Pearson(x, []float64{3, 3, 3, 3, 3}), "zero variance")
	assert.Equal(t, 0.0, Pearson([]float64{1}, []float64{2}))

	// tail-aligned when lengths differ
	assert.InDelta(t, 1.0, Pearson([]float64{99, 1, 2, 3}, []float64{1, 2, 3}), 1e-12)
}

func TestTail(t *testing.T) {
	assert.Equal(t, []float64{3, 4}, Tail([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1}, Tail([]float64{1}, 5))
}

func TestAlignDatedKeepsSharedDays(t *testing.T) {
	mon := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) // a Monday
	day := func(d int, h int) time.Time { return mon.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour) }

	weekdays := []models.Point{{Time: day(3, 14), Value: 10}, {Time: day(4, 14), Value: 11}, {Time: day(7, 14), Value: 12}}
	daily := []models.Point{
		{Time: day(3, 0), Value: 1}, {Time: day(4, 0), Value: 2}, {Time: day(5, 0), Value: 3},
		{Time: day(6, 0), Value: 4}, {Time: day(7, 0), Value: 5}, {Time: day(7, 20), Value: 6},
	}

	x, y := Align(weekdays, daily)
	assert.Equal(t, []float64{10, 11, 12}, x)
	assert.Equal(t, []float64{1, 2, 6}, y, "weekend dropped, last print of a day wins")
}

func TestAlignUndatedMatchesFromTheEnd(t *testing.T) {
	a := []models.Point{{Value: 1}, {Value: 2}, {Value: 3}}
	b := []models.Point{{Value: 20}, {Value: 30}}

	x, y := Align(a, b)
	assert.Equal(t, []float64{2, 3}, x)
	assert.Equal(t, []float64{20, 30}, y)
	assert.Equal(t, []float64{1, 2, 3}, Values(a))
}
