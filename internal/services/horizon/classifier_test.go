package horizon

import (
	"reflect"
	"testing"

	"HorizonSim/internal/domain/models"
)

func delayAction(days, hours int) models.Action {
	return models.Action{
		Verb:   "sell",
		Timing: models.ActionTiming{Type: models.TimingDelay, DelayDays: days, DelayHours: hours},
	}
}

func TestLiquidationPatterns(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		text    string
		wantTag string
		match   bool
	}{
		{"rebalance my portfolio", "rebalance", true},
		{"Rebalance everything now", "rebalance", true},
		{"sell my entire tech allocation", "sell_all", true},
		{"sell the whole position", "sell_all", true},
		{"sell all bonds", "sell_all", true},
		{"liquidate immediately", "liquidate", true},
		{"close all open positions", "close_all", true},
		{"close my account holdings", "close_all", true},
		{"buy 100 shares of AAPL", "", false},
		{"sell some apple stock", "", false},
		{"closely watch the market", "", false},
	}
	for _, tc := range cases {
		tag, ok := c.MatchLiquidation(tc.text)
		if ok != tc.match || tag != tc.wantTag {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", tc.text, tag, ok, tc.wantTag, tc.match)
		}
	}
}

func TestShouldAutoRun(t *testing.T) {
	c := NewClassifier()

	if !c.ShouldAutoRun("rebalance my portfolio", models.ParsedDecision{}) {
		t.Error("liquidation text should auto-run")
	}
	if !c.ShouldAutoRun("sell aapl next week", models.ParsedDecision{Actions: []models.Action{delayAction(7, 0)}}) {
		t.Error("delayed action should auto-run")
	}
	if !c.ShouldAutoRun("hedge against a crash", models.ParsedDecision{MarketShocks: []models.MarketShock{{Kind: "equity_drawdown"}}}) {
		t.Error("market shock should auto-run")
	}
	if c.ShouldAutoRun("buy 100 shares of AAPL", models.ParsedDecision{
		Actions: []models.Action{{Verb: "buy", Timing: models.ActionTiming{Type: models.TimingImmediate}}},
	}) {
		t.Error("plain immediate buy should not auto-run")
	}
	// delay with no actual offset does not trigger
	if c.ShouldAutoRun("sell later", models.ParsedDecision{Actions: []models.Action{delayAction(0, 0)}}) {
		t.Error("zero-offset delay should not auto-run")
	}
}

func TestInferHorizonBuckets(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		name   string
		parsed models.ParsedDecision
		want   *models.HorizonSelection
	}{
		{
			name:   "market shocks default to one-month lens",
			parsed: models.ParsedDecision{MarketShocks: []models.MarketShock{{Kind: "rate_hike"}}},
			want:   &models.HorizonSelection{Category: models.PositionTrade, Magnitude: 4},
		},
		{
			name:   "hours only is a day trade",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(0, 6)}},
			want:   &models.HorizonSelection{Category: models.DayTrade, Magnitude: 6},
		},
		{
			name:   "hours clamp to 24",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(0, 30)}},
			want:   &models.HorizonSelection{Category: models.DayTrade, Magnitude: 24},
		},
		{
			name:   "week-scale delay is a swing trade",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(5, 0)}},
			want:   &models.HorizonSelection{Category: models.SwingTrade, Magnitude: 5},
		},
		{
			name:   "boundary seven days stays swing",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(7, 0)}},
			want:   &models.HorizonSelection{Category: models.SwingTrade, Magnitude: 7},
		},
		{
			name:   "month-scale delay rounds to weeks",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(30, 0)}},
			want:   &models.HorizonSelection{Category: models.PositionTrade, Magnitude: 4},
		},
		{
			name:   "short position delay floors at one week",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(8, 0)}},
			want:   &models.HorizonSelection{Category: models.PositionTrade, Magnitude: 1},
		},
		{
			name:   "long delay rounds to months",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(365, 0)}},
			want:   &models.HorizonSelection{Category: models.LongTerm, Magnitude: 12},
		},
		{
			name:   "long-term floor is six months",
			parsed: models.ParsedDecision{Actions: []models.Action{delayAction(181, 0)}},
			want:   &models.HorizonSelection{Category: models.LongTerm, Magnitude: 6},
		},
		{
			name: "first delayed action wins",
			parsed: models.ParsedDecision{Actions: []models.Action{
				{Verb: "buy", Timing: models.ActionTiming{Type: models.TimingImmediate}},
				delayAction(3, 0),
				delayAction(400, 0),
			}},
			want: &models.HorizonSelection{Category: models.SwingTrade, Magnitude: 3},
		},
		{
			name:   "no timing means interactive selection",
			parsed: models.ParsedDecision{Actions: []models.Action{{Verb: "buy", Timing: models.ActionTiming{Type: models.TimingImmediate}}}},
			want:   nil,
		},
		{
			name:   "missing actions never raises",
			parsed: models.ParsedDecision{},
			want:   nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.InferHorizon(tc.parsed)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestInferHorizonDeterministic(t *testing.T) {
	c := NewClassifier()
	parsed := models.ParsedDecision{Actions: []models.Action{delayAction(12, 0)}}
	first := c.InferHorizon(parsed)
	for i := 0; i < 5; i++ {
		if got := c.InferHorizon(parsed); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}
