package models

// SubHorizonPoint is one day-count within a category range selected for
// simulation. A bounded list of these drives the fan chart.
type SubHorizonPoint struct {
	Label string `json:"label"` // "3 days", "4 weeks", ...
	Days  int    `json:"days"`
}

// PathOutcome summarizes one Monte Carlo fan run at a single sub-horizon.
// Values are signed percentage returns; WorstCase <= Median <= BestCase.
type PathOutcome struct {
	Days      int     `json:"days"`
	BestCase  float64 `json:"best_case"`
	WorstCase float64 `json:"worst_case"`
	Median    float64 `json:"median"`
	NPaths    int     `json:"n_paths"`
}
