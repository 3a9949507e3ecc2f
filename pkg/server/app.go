package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	xhttp "SignalBoard/pkg/http"
	applogger "SignalBoard/pkg/logger"
)

// Scheduler is the render loop started and stopped with the app.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Closer is released after the HTTP server has stopped.
type Closer interface {
	Close()
}

// App encapsulates the entire application lifecycle.
type App struct {
	log        *applogger.Logger
	httpServer *xhttp.Server
	scheduler  Scheduler
	hub        Closer
}

// New creates a new App instance with all dependencies. hub may be nil.
func New(l *applogger.Logger, srv *xhttp.Server, sched Scheduler, hub Closer) *App {
	return &App{log: l, httpServer: srv, scheduler: sched, hub: hub}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and the scheduler, then shuts both down
// once ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}
	if err := a.scheduler.Start(context.WithoutCancel(ctx)); err != nil {
		_ = a.httpServer.Stop(context.Background())
		return fmt.Errorf("scheduler start: %w", err)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	// the running pass finishes and reaches its sinks before they close
	if err := a.scheduler.Stop(ctx); err != nil {
		a.log.Warn("scheduler stop error", applogger.Error(err))
		firstErr = err
	}

	// hijacked websocket connections are not tracked by the http server
	if a.hub != nil {
		a.hub.Close()
	}

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
