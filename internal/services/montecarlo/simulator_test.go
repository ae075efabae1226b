package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func fixedSeed(seed int64) func() int64 {
	return func() int64 { return seed }
}

func TestSimulateOutcomeOrdering(t *testing.T) {
	// worst <= median <= best must hold for all valid inputs.
	sim := NewSimulator(WithSeedSource(fixedSeed(7)))

	cases := []struct {
		days   int
		vol    float64
		nPaths int
	}{
		{1, 0, 1},
		{1, 20, 10},
		{5, 18.4, 100},
		{30, 20, 1000},
		{182, 35, 500},
		{1800, 15, 200},
	}
	for _, tc := range cases {
		out, err := sim.SimulateN(tc.days, tc.vol, tc.nPaths)
		if err != nil {
			t.Fatalf("days=%d vol=%.1f n=%d: %v", tc.days, tc.vol, tc.nPaths, err)
		}
		if out.WorstCase > out.Median || out.Median > out.BestCase {
			t.Errorf("days=%d vol=%.1f n=%d: ordering violated worst=%.2f median=%.2f best=%.2f",
				tc.days, tc.vol, tc.nPaths, out.WorstCase, out.Median, out.BestCase)
		}
		if out.Days != tc.days || out.NPaths != tc.nPaths {
			t.Errorf("echoed inputs wrong: %+v", out)
		}
	}
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	sim := NewSimulator()

	if _, err := sim.Simulate(0, 20); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("days=0: got %v, want ErrInvalidDays", err)
	}
	if _, err := sim.Simulate(-5, 20); !errors.Is(err, ErrInvalidDays) {
		t.Errorf("days=-5: got %v, want ErrInvalidDays", err)
	}
	if _, err := sim.Simulate(10, -1); !errors.Is(err, ErrNegativeVolatility) {
		t.Errorf("vol=-1: got %v, want ErrNegativeVolatility", err)
	}
	if _, err := sim.SimulateN(10, 20, 0); !errors.Is(err, ErrInvalidPaths) {
		t.Errorf("nPaths=0: got %v, want ErrInvalidPaths", err)
	}
}

func TestSimulateZeroVolatilityIsPureDrift(t *testing.T) {
	// With zero volatility every path compounds only the drift, so the
	// three percentiles collapse to the same value.
	sim := NewSimulator(WithSeedSource(fixedSeed(3)))

	out, err := sim.SimulateN(30, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := (math.Pow(1+DefaultDailyDrift, 30) - 1) * 100
	for name, got := range map[string]float64{
		"worst": out.WorstCase, "median": out.Median, "best": out.BestCase,
	} {
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s = %.6f, want %.6f", name, got, want)
		}
	}
}

func TestSimulateDeterministicUnderFixedSeed(t *testing.T) {
	a := NewSimulator(WithSeedSource(fixedSeed(99)))
	b := NewSimulator(WithSeedSource(fixedSeed(99)))

	o1, err := a.SimulateN(30, 20, 1000)
	if err != nil {
		t.Fatal(err)
	}
	o2, err := b.SimulateN(30, 20, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if o1 != o2 {
		t.Errorf("same seed produced different outcomes:\n%+v\n%+v", o1, o2)
	}
}

func TestSimulateIndependentSeedsDifferButAgree(t *testing.T) {
	// Two independently-seeded runs must produce different draws (guards
	// against a shared/frozen-seed bug) while remaining statistically
	// similar at the median.
	a := NewSimulator(WithSeedSource(fixedSeed(1)))
	b := NewSimulator(WithSeedSource(fixedSeed(2)))

	o1, err := a.SimulateN(30, 20, 1000)
	if err != nil {
		t.Fatal(err)
	}
	o2, err := b.SimulateN(30, 20, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if o1 == o2 {
		t.Error("independently seeded runs produced identical outcomes")
	}
	if diff := math.Abs(o1.Median - o2.Median); diff > 3 {
		t.Errorf("medians diverge by %.2f pct points, want < 3", diff)
	}
}
