package sink

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"SignalBoard/internal/domain/models"
	applogger "SignalBoard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		ID:          "snap-1",
		GeneratedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Records: []models.ViewRecord{
			{Signal: "Gold", Status: models.StatusOK},
			{Signal: "Bitcoin", Status: models.StatusStaleFallback},
			{Signal: "Vibe", Status: models.StatusErrorFallback},
		},
	}
}

func TestLogSinkSummarizesFallbacks(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(applogger.NewWriter(&buf))

	require.NoError(t, s.Push(context.Background(), testSnapshot()))
	out := buf.String()
	assert.Contains(t, out, `"id":"snap-1"`)
	assert.Contains(t, out, `"records":3`)
	assert.Contains(t, out, "Bitcoin")
	assert.Contains(t, out, "Vibe")
	assert.Equal(t, "log", s.Name())
}

type fakeStore struct {
	key, channel string
	value        interface{}
	ttl          time.Duration
	err          error
}

func (f *fakeStore) SetAndPublish(_ context.Context, key, channel string, value interface{}, ttl time.Duration) error {
	f.key, f.channel, f.value, f.ttl = key, channel, value, ttl
	return f.err
}

func TestRedisSinkWritesLatestAndPublishes(t *testing.T) {
	store := &fakeStore{}
	s := NewRedisSink(store, time.Minute)
	snap := testSnapshot()

	require.NoError(t, s.Push(context.Background(), snap))
	assert.Equal(t, LatestKey, store.key)
	assert.Equal(t, SnapshotsChannel, store.channel)
	assert.Same(t, snap, store.value)
	assert.Equal(t, time.Minute, store.ttl)

	store.err = errors.New("connection refused")
	err := s.Push(context.Background(), snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snap-1")
}

type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, key []byte, _ interface{}) error {
	f.keys = append(f.keys, string(key))
	return f.err
}

func TestKafkaSinkKeysBySnapshotID(t *testing.T) {
	pub := &fakePublisher{}
	s := NewKafkaSink(pub)

	require.NoError(t, s.Push(context.Background(), testSnapshot()))
	assert.Equal(t, []string{"snap-1"}, pub.keys)

	pub.err = errors.New("leader not available")
	assert.ErrorContains(t, s.Push(context.Background(), testSnapshot()), "leader not available")
}
