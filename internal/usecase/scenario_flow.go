package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"HorizonSim/internal/domain/models"
	domrepo "HorizonSim/internal/domain/repository"
	domsvc "HorizonSim/internal/domain/service"
	"HorizonSim/internal/middleware"
	"HorizonSim/internal/services/horizon"
	"HorizonSim/internal/services/montecarlo"
	pkgcache "HorizonSim/pkg/cache"
	xlogger "HorizonSim/pkg/logger"
)

const (
	minDecisionChars  = 3
	gateMinConfidence = 0.4
	gateWarningNeedle = "not recognized"
	gateFallbackMsg   = "We could not confidently read that decision. Try rephrasing it."
)

var (
	// ErrDecisionTooShort is a validation failure; the flow stays Idle.
	ErrDecisionTooShort = errors.New("decision text must be at least 3 characters")
	// ErrStaleToken means a newer submission superseded this episode.
	ErrStaleToken = errors.New("episode token is no longer current")
	// ErrNotAwaiting means no episode is waiting for an interactive pick.
	ErrNotAwaiting = errors.New("no episode awaiting horizon selection")
)

// Notifier receives live episode updates for push rendering. Implementations
// must not block.
type Notifier interface {
	NotifyState(ep models.ScenarioEpisode)
	NotifyOutcome(episodeID string, token int64, out models.PathOutcome)
}

// ScenarioFlow orchestrates one decision-to-simulation episode at a time:
// submit -> parse -> confidence gate -> classify -> [interactive pick |
// auto-run] -> simulate -> resolved. A monotonic token makes the latest
// submission win; results carrying an older token are discarded.
type ScenarioFlow struct {
	parser   domsvc.DecisionParser
	vol      domsvc.VolatilityProvider
	policy   domsvc.AutoRunPolicy
	sim      *montecarlo.Simulator
	pipeline *middleware.SimPipeline
	cache    domrepo.OutcomeCache
	events   domrepo.EventPublisher // optional
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
	notifier Notifier // optional

	token   atomic.Int64
	mu      sync.Mutex
	episode models.ScenarioEpisode
}

func NewScenarioFlow(
	parser domsvc.DecisionParser,
	vol domsvc.VolatilityProvider,
	policy domsvc.AutoRunPolicy,
	sim *montecarlo.Simulator,
	pipeline *middleware.SimPipeline,
	cache domrepo.OutcomeCache,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) *ScenarioFlow {
	return &ScenarioFlow{
		parser:   parser,
		vol:      vol,
		policy:   policy,
		sim:      sim,
		pipeline: pipeline,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		episode:  models.ScenarioEpisode{State: models.StateIdle},
	}
}

// SetEventPublisher wires optional episode telemetry.
func (f *ScenarioFlow) SetEventPublisher(p domrepo.EventPublisher) { f.events = p }

// SetNotifier wires optional live push updates.
func (f *ScenarioFlow) SetNotifier(n Notifier) { f.notifier = n }

// Snapshot returns a copy of the current episode.
func (f *ScenarioFlow) Snapshot() models.ScenarioEpisode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.episode
}

// Analyze starts a new episode from free decision text. It returns the
// episode snapshot after the flow has settled into Gated, AwaitingHorizon,
// or Resolved (auto-run). Transport failures recover the flow to Idle.
func (f *ScenarioFlow) Analyze(ctx context.Context, decisionText string) (models.ScenarioEpisode, error) {
	text := strings.TrimSpace(decisionText)
	if len(text) < minDecisionChars {
		return f.Snapshot(), ErrDecisionTooShort
	}

	token := f.token.Add(1)
	id := uuid.NewString()
	f.transition(token, func(ep *models.ScenarioEpisode) {
		*ep = models.ScenarioEpisode{
			ID:           id,
			Token:        token,
			State:        models.StateAnalyzing,
			DecisionText: text,
		}
	})

	parsed, err := f.parser.Parse(ctx, text)
	if err != nil {
		return f.fail(token, fmt.Errorf("decision parse: %w", err))
	}

	if gated, msg := gateCheck(parsed); gated {
		ep := f.transition(token, func(ep *models.ScenarioEpisode) {
			ep.State = models.StateGated
			ep.Confidence = parsed.ConfidenceScore
			ep.Warnings = parsed.Warnings
			ep.Message = msg
		})
		f.metrics.RecordEpisode(string(models.StateGated), false)
		return ep, nil
	}

	volPct, err := f.vol.ScenarioVolatility(ctx, text)
	if err != nil {
		return f.fail(token, fmt.Errorf("scenario volatility: %w", err))
	}

	if !f.policy.ShouldAutoRun(text, parsed) {
		ep := f.transition(token, func(ep *models.ScenarioEpisode) {
			ep.State = models.StateAwaitingHorizon
			ep.Confidence = parsed.ConfidenceScore
			ep.Warnings = parsed.Warnings
			ep.VolatilityPct = volPct
		})
		f.metrics.RecordEpisode(string(models.StateAwaitingHorizon), false)
		return ep, nil
	}

	sel := f.policy.InferHorizon(parsed)
	if sel == nil {
		// liquidation text with no timing and no shocks: day-trade default
		sel = &models.HorizonSelection{
			Category:  models.DayTrade,
			Magnitude: models.DayTrade.DefaultMagnitude(),
		}
	}
	f.transition(token, func(ep *models.ScenarioEpisode) {
		ep.State = models.StateAutoRunning
		ep.Confidence = parsed.ConfidenceScore
		ep.Warnings = parsed.Warnings
		ep.AutoRun = true
		ep.Selection = sel
		ep.VolatilityPct = volPct
	})
	return f.runEpisode(ctx, token, *sel, volPct)
}

// SelectHorizon completes an AwaitingHorizon episode with the user's pick.
func (f *ScenarioFlow) SelectHorizon(ctx context.Context, token int64, sel models.HorizonSelection) (models.ScenarioEpisode, error) {
	if err := sel.Validate(); err != nil {
		return f.Snapshot(), err
	}

	f.mu.Lock()
	switch {
	case token != f.token.Load():
		f.mu.Unlock()
		return f.Snapshot(), ErrStaleToken
	case f.episode.State != models.StateAwaitingHorizon:
		f.mu.Unlock()
		return f.Snapshot(), ErrNotAwaiting
	}
	volPct := f.episode.VolatilityPct
	f.episode.Selection = &sel
	f.mu.Unlock()

	return f.runEpisode(ctx, token, sel, volPct)
}

// runEpisode builds the sub-horizon list and fans out the Monte Carlo runs
// on the pipeline worker, in increasing days order.
func (f *ScenarioFlow) runEpisode(ctx context.Context, token int64, sel models.HorizonSelection, volPct float64) (models.ScenarioEpisode, error) {
	points, err := horizon.FanPoints(sel)
	if err != nil {
		return f.fail(token, fmt.Errorf("sub-horizons: %w", err))
	}

	f.transition(token, func(ep *models.ScenarioEpisode) {
		ep.State = models.StateSimulating
		ep.SubHorizons = points
	})

	key := memoKey(sel, volPct)
	outcomes, cached := f.cache.Get(ctx, key)
	if !cached {
		start := time.Now()
		var simErr error
		err = f.pipeline.Submit(ctx, func() {
			outcomes, simErr = f.simulateAll(points, volPct)
		})
		if err != nil {
			return f.fail(token, fmt.Errorf("simulation submit: %w", err))
		}
		if simErr != nil {
			return f.fail(token, fmt.Errorf("simulation: %w", simErr))
		}
		f.metrics.RecordLatency("simulate_episode", time.Since(start).Seconds())
		f.cache.Set(ctx, key, outcomes)
	}

	if token != f.token.Load() {
		f.metrics.RecordStaleDiscard()
		return f.Snapshot(), ErrStaleToken
	}

	ep := f.transition(token, func(ep *models.ScenarioEpisode) {
		ep.State = models.StateResolved
		ep.Outcomes = outcomes
	})
	if f.notifier != nil {
		for _, out := range outcomes {
			f.notifier.NotifyOutcome(ep.ID, token, out)
		}
	}
	f.metrics.RecordEpisode(string(models.StateResolved), ep.AutoRun)
	for _, out := range outcomes {
		f.metrics.RecordPaths(out.NPaths)
	}
	return ep, nil
}

func (f *ScenarioFlow) simulateAll(points []models.SubHorizonPoint, volPct float64) ([]models.PathOutcome, error) {
	outcomes := make([]models.PathOutcome, 0, len(points))
	for _, p := range points {
		out, err := f.sim.Simulate(p.Days, volPct)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Label, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// fail surfaces the Error state to subscribers, then recovers the flow to
// Idle with no partial state.
func (f *ScenarioFlow) fail(token int64, err error) (models.ScenarioEpisode, error) {
	f.logger.Error("scenario episode failed", xlogger.Int64("token", token), xlogger.Error(err))
	f.metrics.RecordError("episode")
	f.transition(token, func(ep *models.ScenarioEpisode) {
		ep.State = models.StateError
		ep.Message = err.Error()
	})
	f.transition(token, func(ep *models.ScenarioEpisode) {
		*ep = models.ScenarioEpisode{
			ID:      ep.ID,
			Token:   token,
			State:   models.StateIdle,
			Message: ep.Message,
		}
	})
	return f.Snapshot(), err
}

// transition applies fn under the lock if token is still current, then
// publishes the new state. Returns the (possibly unchanged) snapshot.
func (f *ScenarioFlow) transition(token int64, fn func(*models.ScenarioEpisode)) models.ScenarioEpisode {
	f.mu.Lock()
	if token == f.token.Load() {
		fn(&f.episode)
		f.episode.UpdatedAt = time.Now()
	}
	ep := f.episode
	f.mu.Unlock()

	if f.notifier != nil {
		f.notifier.NotifyState(ep)
	}
	f.publishEvent(ep)
	return ep
}

func (f *ScenarioFlow) publishEvent(ep models.ScenarioEpisode) {
	if f.events == nil {
		return
	}
	ev := models.EpisodeEvent{
		EpisodeID: ep.ID,
		Token:     ep.Token,
		State:     ep.State,
		AutoRun:   ep.AutoRun,
		Outcomes:  len(ep.Outcomes),
		Timestamp: time.Now(),
	}
	if ep.Selection != nil {
		ev.Category = string(ep.Selection.Category)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := f.events.PublishEpisode(ctx, ev); err != nil {
		f.logger.Warn("episode event publish failed", xlogger.Error(err))
	}
}

func gateCheck(parsed models.ParsedDecision) (bool, string) {
	gated := parsed.ConfidenceScore < gateMinConfidence
	for _, w := range parsed.Warnings {
		if strings.Contains(strings.ToLower(w), gateWarningNeedle) {
			gated = true
		}
	}
	if !gated {
		return false, ""
	}
	if len(parsed.Warnings) > 0 {
		return true, parsed.Warnings[0]
	}
	return true, gateFallbackMsg
}

func memoKey(sel models.HorizonSelection, volPct float64) string {
	return pkgcache.GenerateKeyWithParams("sim", sel.Category, sel.Magnitude, volPct)
}
