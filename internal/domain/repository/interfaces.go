package repository

import (
	"context"

	"HorizonSim/internal/domain/models"
)

// EventPublisher emits episode telemetry events to the message bus.
// Fire-and-forget: a publish failure must never fail the episode itself.
type EventPublisher interface {
	PublishEpisode(ctx context.Context, ev models.EpisodeEvent) error
	Close() error
}

// OutcomeCache memoizes fan-simulation results keyed by
// (category, magnitude, volatility) so unrelated re-renders do not re-run
// the Monte Carlo loop.
type OutcomeCache interface {
	Get(ctx context.Context, key string) ([]models.PathOutcome, bool)
	Set(ctx context.Context, key string, outcomes []models.PathOutcome)
}

// Metrics records operational counters for the scenario pipeline.
type Metrics interface {
	RecordEpisode(state string, autoRun bool)
	RecordError(kind string)
	RecordPaths(n int)
	RecordStaleDiscard()
	RecordLatency(op string, seconds float64)
}
