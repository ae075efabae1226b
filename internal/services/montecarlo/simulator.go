package montecarlo

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"HorizonSim/internal/domain/models"
)

// TradingDaysPerYear scales annualized volatility down to a daily step.
const TradingDaysPerYear = 252

// DefaultDailyDrift is a small positive bias representing a neutral market
// assumption for visualization. It is not a calibrated estimate; deployments
// override it via simulation.daily_drift.
const DefaultDailyDrift = 0.0001

// DefaultPaths is the number of independent paths per sub-horizon.
const DefaultPaths = 1000

var (
	ErrInvalidDays        = errors.New("montecarlo: days must be positive")
	ErrNegativeVolatility = errors.New("montecarlo: volatility must be non-negative")
	ErrInvalidPaths       = errors.New("montecarlo: path count must be positive")
)

// Simulator generates compounded daily return paths for a sub-horizon and
// reduces them to best/median/worst percentage returns.
//
// Each Simulate call builds its own seeded generator, so invocations are
// independent and reproducible under a fixed seed source; no draw ordering
// is shared across calls.
type Simulator struct {
	dailyDrift float64
	nPaths     int
	seedFn     func() int64
	seq        atomic.Int64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithDailyDrift overrides the per-day drift constant.
func WithDailyDrift(d float64) Option {
	return func(s *Simulator) { s.dailyDrift = d }
}

// WithPaths sets the number of Monte Carlo paths per run.
func WithPaths(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.nPaths = n
		}
	}
}

// WithSeedSource injects a deterministic seed source for tests.
func WithSeedSource(fn func() int64) Option {
	return func(s *Simulator) { s.seedFn = fn }
}

// NewSimulator creates a Simulator with the default drift and path count.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		dailyDrift: DefaultDailyDrift,
		nPaths:     DefaultPaths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs nPaths independent geometric paths over the given number of
// trading days at the annualized volatility percentage (18.4 means 18.4%/yr)
// and returns the sorted extremes and lower median as signed percentages.
func (s *Simulator) Simulate(days int, annualizedVolPct float64) (models.PathOutcome, error) {
	return s.SimulateN(days, annualizedVolPct, s.nPaths)
}

// SimulateN is Simulate with an explicit path count.
func (s *Simulator) SimulateN(days int, annualizedVolPct float64, nPaths int) (models.PathOutcome, error) {
	if days <= 0 {
		return models.PathOutcome{}, ErrInvalidDays
	}
	if annualizedVolPct < 0 {
		return models.PathOutcome{}, ErrNegativeVolatility
	}
	if nPaths <= 0 {
		return models.PathOutcome{}, ErrInvalidPaths
	}

	dailyVol := (annualizedVolPct / 100) / math.Sqrt(TradingDaysPerYear)
	sampler := NewSampler(rand.New(rand.NewSource(s.nextSeed())))

	returns := make([]float64, nPaths)
	for p := 0; p < nPaths; p++ {
		cum := 1.0
		for d := 0; d < days; d++ {
			z := sampler.Sample()
			cum *= 1 + s.dailyDrift + dailyVol*z
		}
		returns[p] = (cum - 1) * 100
	}
	sort.Float64s(returns)

	return models.PathOutcome{
		Days:      days,
		WorstCase: returns[0],
		BestCase:  returns[nPaths-1],
		Median:    returns[nPaths/2], // lower median by convention
		NPaths:    nPaths,
	}, nil
}

func (s *Simulator) nextSeed() int64 {
	n := s.seq.Add(1)
	if s.seedFn != nil {
		return s.seedFn()
	}
	// mix a sequence counter in so back-to-back runs within one tick differ
	return time.Now().UnixNano() ^ (n << 32)
}
