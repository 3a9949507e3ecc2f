package sink

import (
	"context"

	"SignalBoard/internal/domain/models"
	applogger "SignalBoard/pkg/logger"
)

// LogSink writes a one-line summary of every snapshot.
type LogSink struct {
	log *applogger.Logger
}

func NewLogSink(l *applogger.Logger) *LogSink {
	return &LogSink{log: l}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Push(_ context.Context, snap *models.Snapshot) error {
	var stale, fallback []string
	for _, r := range snap.Records {
		switch r.Status {
		case models.StatusStaleFallback:
			stale = append(stale, r.Signal)
		case models.StatusErrorFallback:
			fallback = append(fallback, r.Signal)
		}
	}

	fields := []applogger.Field{
		applogger.String("id", snap.ID),
		applogger.Int("records", len(snap.Records)),
		applogger.Bool("correlation", snap.Correlation != nil),
	}
	if len(stale) > 0 {
		fields = append(fields, applogger.Strings("stale", stale))
	}
	if len(fallback) > 0 {
		fields = append(fields, applogger.Strings("offline", fallback))
	}
	s.log.Info("snapshot", fields...)
	return nil
}
