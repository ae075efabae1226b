package horizon

import (
	"math"
	"regexp"
	"strings"

	"HorizonSim/internal/domain/models"
	domsvc "HorizonSim/internal/domain/service"
)

// liquidationRule tags one "immediate full liquidation/rebalance" text
// pattern. Keeping the set as a table makes the false-negative behavior an
// enumerable policy instead of regex literals buried in the state machine.
type liquidationRule struct {
	Tag     string
	pattern *regexp.Regexp
}

var liquidationRules = []liquidationRule{
	{Tag: "rebalance", pattern: regexp.MustCompile(`\brebalance\b`)},
	{Tag: "sell_all", pattern: regexp.MustCompile(`\bsell\s+((my|the)\s+)?(entire|whole|all)\b`)},
	{Tag: "liquidate", pattern: regexp.MustCompile(`\bliquidate\b`)},
	{Tag: "close_all", pattern: regexp.MustCompile(`\bclose\s+(all|my)\b`)},
}

// Delay-day thresholds for bucketing explicit timing into a category.
const (
	maxSwingDelayDays    = 7
	maxPositionDelayDays = 180
)

// Classifier decides whether a parsed decision implies a horizon on its own
// (auto-skip) or whether the user must pick one interactively. Pure; safe to
// share.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// MatchLiquidation returns the tag of the first liquidation rule matching
// the lowercased decision text.
func (c *Classifier) MatchLiquidation(decisionText string) (string, bool) {
	text := strings.ToLower(decisionText)
	for _, r := range liquidationRules {
		if r.pattern.MatchString(text) {
			return r.Tag, true
		}
	}
	return "", false
}

// ShouldAutoRun reports whether simulation may start without user input:
// the text matches a liquidation pattern, any action carries an explicit
// delay, or the parser flagged market shocks.
func (c *Classifier) ShouldAutoRun(decisionText string, parsed models.ParsedDecision) bool {
	if _, ok := c.MatchLiquidation(decisionText); ok {
		return true
	}
	for _, a := range parsed.Actions {
		if a.Timing.Type == models.TimingDelay && (a.Timing.DelayDays > 0 || a.Timing.DelayHours > 0) {
			return true
		}
	}
	return len(parsed.MarketShocks) > 0
}

// InferHorizon maps the parsed decision onto a concrete selection, or nil
// when interactive selection is required.
//
// Macro shocks default to a one-month lens. Otherwise the first delayed
// action is bucketed by its delay; a missing or malformed action list means
// no timing was found.
func (c *Classifier) InferHorizon(parsed models.ParsedDecision) *models.HorizonSelection {
	if len(parsed.MarketShocks) > 0 {
		return &models.HorizonSelection{Category: models.PositionTrade, Magnitude: 4}
	}
	for _, a := range parsed.Actions {
		if a.Timing.Type != models.TimingDelay {
			continue
		}
		days, hours := a.Timing.DelayDays, a.Timing.DelayHours
		switch {
		case hours > 0 && days == 0:
			return &models.HorizonSelection{Category: models.DayTrade, Magnitude: clampf(float64(hours), 1, 24)}
		case days > 0 && days <= maxSwingDelayDays:
			return &models.HorizonSelection{Category: models.SwingTrade, Magnitude: float64(days)}
		case days > maxSwingDelayDays && days <= maxPositionDelayDays:
			return &models.HorizonSelection{Category: models.PositionTrade, Magnitude: math.Max(1, math.Round(float64(days)/7))}
		case days > maxPositionDelayDays:
			return &models.HorizonSelection{Category: models.LongTerm, Magnitude: math.Max(6, math.Round(float64(days)/30))}
		}
	}
	return nil
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ domsvc.AutoRunPolicy = (*Classifier)(nil)
