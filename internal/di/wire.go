//go:build wireinject
// +build wireinject

package di

import (
	"HorizonSim/pkg/config"
	"HorizonSim/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCacheService,
		ProvideOutcomeCache,
		ProvideEpisodePublisher,

		// Domain services
		ProvideDecisionParser,
		ProvideVolatilityProvider,
		ProvideAutoRunPolicy,
		ProvideSimulator,
		ProvideSimPipeline,

		// Use case
		ProvideScenarioFlow,

		// Transport
		ProvideStreamHub,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
