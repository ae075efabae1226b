package models

// TimingType classifies when a parsed action is meant to execute.
type TimingType string

const (
	TimingImmediate   TimingType = "immediate"
	TimingDelay       TimingType = "delay"
	TimingConditional TimingType = "conditional"
)

// ActionTiming carries the execution timing of a single parsed action.
type ActionTiming struct {
	Type       TimingType `json:"type"`
	DelayDays  int        `json:"delay_days,omitempty"`
	DelayHours int        `json:"delay_hours,omitempty"`
}

// Action is one trade instruction extracted by the decision parsing service.
type Action struct {
	Verb     string       `json:"verb"` // "buy", "sell", "rebalance", ...
	Symbol   string       `json:"symbol,omitempty"`
	Quantity float64      `json:"quantity,omitempty"`
	Timing   ActionTiming `json:"timing"`
}

// MarketShock is a macro scenario flag attached by the parser ("rates +200bp" etc).
type MarketShock struct {
	Kind        string  `json:"kind"`
	Magnitude   float64 `json:"magnitude,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ParsedDecision is the read-only output of the external decision parsing
// service. It is created per analysis request and discarded after
// classification; nothing beyond these fields may be assumed.
type ParsedDecision struct {
	Actions         []Action      `json:"actions"`
	MarketShocks    []MarketShock `json:"market_shocks"`
	ConfidenceScore float64       `json:"confidence_score"`
	Warnings        []string      `json:"warnings"`
}
