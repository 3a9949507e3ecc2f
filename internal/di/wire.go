//go:build wireinject
// +build wireinject

package di

import (
	"SignalBoard/pkg/config"
	"SignalBoard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Sources
		ProvideQuoteSource,
		ProvideScraper,
		ProvidePropagator,

		// Use cases
		ProvideRegistry,
		ProvideDashboard,
		ProvideSinks,
		ProvideScheduler,

		// Transport
		ProvideHub,
		ProvideRateLimiter,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
