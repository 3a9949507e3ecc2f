package sink

import (
	"context"
	"fmt"

	"SignalBoard/internal/domain/models"
)

// Publisher is the part of kafka.Producer the sink needs.
type Publisher interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
}

// KafkaSink publishes every snapshot keyed by its ID.
type KafkaSink struct {
	pub Publisher
}

func NewKafkaSink(pub Publisher) *KafkaSink {
	return &KafkaSink{pub: pub}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Push(ctx context.Context, snap *models.Snapshot) error {
	if err := s.pub.Publish(ctx, []byte(snap.ID), snap); err != nil {
		return fmt.Errorf("kafka push %s: %w", snap.ID, err)
	}
	return nil
}
