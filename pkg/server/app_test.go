package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	xhttp "SignalBoard/pkg/http"
	applogger "SignalBoard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	mu              sync.Mutex
	started, stopped bool
	startErr        error
}

func (f *fakeScheduler) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return f.startErr
}

func (f *fakeScheduler) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

type fakeHub struct{ closed bool }

func (f *fakeHub) Close() { f.closed = true }

func newTestServer() *xhttp.Server {
	return xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetricsPath(""),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
}

func TestRunContextStopsEverythingOnCancel(t *testing.T) {
	sched := &fakeScheduler{}
	hub := &fakeHub{}
	app := New(applogger.Nop(), newTestServer(), sched, hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		return sched.started
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("RunContext did not return")
	}
	assert.True(t, sched.stopped)
	assert.True(t, hub.closed)
}

func TestRunContextFailsWhenSchedulerRejectsStart(t *testing.T) {
	sched := &fakeScheduler{startErr: errors.New("bad interval")}
	app := New(applogger.Nop(), newTestServer(), sched, nil)

	err := app.RunContext(context.Background())
	assert.ErrorContains(t, err, "bad interval")
}
