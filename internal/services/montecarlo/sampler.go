package montecarlo

import (
	"math"
	"math/rand"
)

// minUniform guards the log draw: Float64 can return exactly 0 and
// ln(0) is -Inf.
const minUniform = 1e-12

// Sampler produces standard-normal deviates from an injected uniform source
// via the Box-Muller transform. The source is not shared: callers that run
// simulations concurrently must give each its own Sampler.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps the given source. A nil source is a programming defect
// and will panic on first use, matching the fail-loudly policy for
// simulation input errors.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample returns one N(0,1) deviate.
func (s *Sampler) Sample() float64 {
	u1 := s.rng.Float64()
	if u1 < minUniform {
		u1 = minUniform
	}
	u2 := s.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
