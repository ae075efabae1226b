package models

// Requests for the scenario HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	DecisionText string `json:"decision_text" validate:"required,min=3"`
}

type HorizonRequest struct {
	Token     int64   `json:"token" validate:"required,gte=1"`
	Category  string  `json:"category" validate:"required,oneof=day_trade swing_trade position_trade long_term"`
	Magnitude float64 `json:"magnitude" validate:"required,gt=0"`
}
