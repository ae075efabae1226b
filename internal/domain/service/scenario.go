package service

import (
	"context"

	"HorizonSim/internal/domain/models"
)

// DecisionParser turns free decision text into a structured ParsedDecision.
// Backed by the external /api/v1/decision/parse service.
type DecisionParser interface {
	Parse(ctx context.Context, decisionText string) (models.ParsedDecision, error)
}

// VolatilityProvider supplies the annualized scenario volatility percentage
// (e.g. 18.4 meaning 18.4%/yr) from the external comparison service.
type VolatilityProvider interface {
	ScenarioVolatility(ctx context.Context, decisionText string) (float64, error)
}

// AutoRunPolicy decides whether a decision implies an immediate run without
// interactive horizon selection. The rule set is swappable without touching
// the flow state machine.
type AutoRunPolicy interface {
	ShouldAutoRun(decisionText string, parsed models.ParsedDecision) bool
	InferHorizon(parsed models.ParsedDecision) *models.HorizonSelection
}
