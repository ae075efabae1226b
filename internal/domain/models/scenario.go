package models

import "time"

// FlowState is the scenario controller state machine position.
type FlowState string

const (
	StateIdle            FlowState = "idle"
	StateAnalyzing       FlowState = "analyzing"
	StateGated           FlowState = "gated"
	StateAwaitingHorizon FlowState = "awaiting_horizon"
	StateAutoRunning     FlowState = "auto_running"
	StateSimulating      FlowState = "simulating"
	StateResolved        FlowState = "resolved"
	StateError           FlowState = "error"
)

// ScenarioEpisode is a snapshot of one decision-to-simulation episode.
// It is pure derived view state: recomputed per request, never persisted.
type ScenarioEpisode struct {
	ID            string            `json:"id"`
	Token         int64             `json:"token"`
	State         FlowState         `json:"state"`
	DecisionText  string            `json:"decision_text,omitempty"`
	Confidence    float64           `json:"confidence,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`
	AutoRun       bool              `json:"auto_run"`
	Selection     *HorizonSelection `json:"selection,omitempty"`
	VolatilityPct float64           `json:"volatility_pct,omitempty"`
	SubHorizons   []SubHorizonPoint `json:"sub_horizons,omitempty"`
	Outcomes      []PathOutcome     `json:"outcomes,omitempty"`
	Message       string            `json:"message,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// EpisodeEvent is the telemetry record published on state transitions.
// Emission only; there is no store or replay.
type EpisodeEvent struct {
	EpisodeID string    `json:"episode_id"`
	Token     int64     `json:"token"`
	State     FlowState `json:"state"`
	AutoRun   bool      `json:"auto_run"`
	Category  string    `json:"category,omitempty"`
	Outcomes  int       `json:"outcomes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
