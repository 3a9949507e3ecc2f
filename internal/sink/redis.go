package sink

import (
	"context"
	"fmt"
	"time"

	"SignalBoard/internal/domain/models"
)

const (
	LatestKey        = "snapshot:latest"
	SnapshotsChannel = "snapshots"
)

// SnapshotStore is the part of cache.RedisStore the sink needs.
type SnapshotStore interface {
	SetAndPublish(ctx context.Context, key, channel string, value interface{}, expiration time.Duration) error
}

// RedisSink keeps the latest snapshot under a key and publishes each one on
// a channel for other processes to pick up.
type RedisSink struct {
	store SnapshotStore
	ttl   time.Duration
}

func NewRedisSink(store SnapshotStore, ttl time.Duration) *RedisSink {
	return &RedisSink{store: store, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Push(ctx context.Context, snap *models.Snapshot) error {
	if err := s.store.SetAndPublish(ctx, LatestKey, SnapshotsChannel, snap, s.ttl); err != nil {
		return fmt.Errorf("redis push %s: %w", snap.ID, err)
	}
	return nil
}
