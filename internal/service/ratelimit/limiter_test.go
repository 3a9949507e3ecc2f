package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowConsumesAndRefills(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1).WithClock(func() time.Time { return now })

	ok, _ := l.Allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	require.True(t, ok)

	ok, retry := l.Allow("10.0.0.1")
	require.False(t, ok)
	assert.Equal(t, time.Second, retry)

	// other keys have their own bucket
	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)

	now = now.Add(1500 * time.Millisecond)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestPruneDropsFullBuckets(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 1).WithClock(func() time.Time { return now })

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Len())
	assert.Equal(t, 0, l.Prune())

	now = now.Add(2 * time.Second)
	assert.Equal(t, 2, l.Prune())
	assert.Equal(t, 0, l.Len())
}
