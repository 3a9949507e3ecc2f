package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	applogger "SignalBoard/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes the dashboard on a fixed interval and pushes every
// snapshot to its sinks. A tick that arrives while a pass is still running
// is skipped; the running pass finishes and keeps the cache warm.
type Scheduler struct {
	dash        *DashboardService
	sinks       []domrepo.SnapshotSink
	interval    time.Duration
	passTimeout time.Duration
	metrics     domrepo.Metrics
	log         *applogger.Logger

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	last *models.Snapshot
}

func NewScheduler(dash *DashboardService, sinks []domrepo.SnapshotSink, interval, passTimeout time.Duration, metrics domrepo.Metrics, l *applogger.Logger) *Scheduler {
	if passTimeout <= 0 {
		passTimeout = 30 * time.Second
	}
	return &Scheduler{
		dash:        dash,
		sinks:       sinks,
		interval:    interval,
		passTimeout: passTimeout,
		metrics:     metrics,
		log:         l,
	}
}

// Start runs one pass immediately and then one per interval.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval < time.Second {
		return fmt.Errorf("scheduler interval %s is below one second", s.interval)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	cl := cronLogger{s.log}
	s.cron = cron.New(cron.WithLogger(cl))
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.tick))
	s.cron.Schedule(cron.Every(s.interval), job)
	s.cron.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()

	s.log.Info("scheduler started",
		applogger.Duration("interval_ms", s.interval),
		applogger.Int("sinks", len(s.sinks)),
	)
	return nil
}

// Stop prevents new passes and waits for the running one.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	stopped := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		s.wg.Wait()
		close(done)
	}()

	defer s.cancel()
	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) tick() {
	if _, err := s.RunOnce(s.ctx); err != nil {
		s.log.Error("render pass failed", applogger.Error(err))
	}
}

// RunOnce produces one snapshot and pushes it to every sink. A failing sink
// is logged and counted; it does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()

	snap, err := s.dash.GetDashboardSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, sink := range s.sinks {
		wg.Add(1)
		go func(sink domrepo.SnapshotSink) {
			defer wg.Done()
			if err := sink.Push(ctx, snap); err != nil {
				s.metrics.RecordSinkError(sink.Name())
				s.log.Warn("sink push failed",
					applogger.String("sink", sink.Name()),
					applogger.String("snapshot", snap.ID),
					applogger.Error(err),
				)
			}
		}(sink)
	}
	wg.Wait()
	return snap, nil
}

// Latest returns the most recent snapshot, or nil before the first pass.
func (s *Scheduler) Latest() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct{ l *applogger.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), applogger.Error(err))...)
}

func kvFields(kv []interface{}) []applogger.Field {
	fields := make([]applogger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, applogger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}
