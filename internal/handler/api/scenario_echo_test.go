package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"HorizonSim/internal/domain/models"
	"HorizonSim/internal/middleware"
	"HorizonSim/internal/services/decision"
	"HorizonSim/internal/services/horizon"
	"HorizonSim/internal/services/montecarlo"
	"HorizonSim/internal/usecase"
	xlogger "HorizonSim/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fixedParser struct {
	parsed models.ParsedDecision
}

func (p fixedParser) Parse(context.Context, string) (models.ParsedDecision, error) {
	return p.parsed, nil
}

type noMetrics struct{}

func (noMetrics) RecordEpisode(string, bool)    {}
func (noMetrics) RecordError(string)            {}
func (noMetrics) RecordPaths(int)               {}
func (noMetrics) RecordStaleDiscard()           {}
func (noMetrics) RecordLatency(string, float64) {}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]models.PathOutcome, bool) { return nil, false }
func (noCache) Set(context.Context, string, []models.PathOutcome)        {}

func newTestHandler(t *testing.T, parsed models.ParsedDecision) (*echo.Echo, *usecase.ScenarioFlow) {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	pipe := middleware.NewSimPipeline(noMetrics{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	pipe.Start(ctx)

	sim := montecarlo.NewSimulator(
		montecarlo.WithPaths(100),
		montecarlo.WithSeedSource(func() int64 { return 7 }),
	)
	flow := usecase.NewScenarioFlow(
		fixedParser{parsed: parsed},
		decision.StaticVolatilityProvider{VolPct: 25},
		horizon.NewClassifier(),
		sim, pipe, noCache{}, noMetrics{}, l,
	)

	e := echo.New()
	NewScenarioEchoHandler(l, flow, nil).RegisterRoutes(e)
	return e, flow
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d, want 200", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func ambiguousDecision() models.ParsedDecision {
	return models.ParsedDecision{
		Actions: []models.Action{
			{Verb: "buy", Timing: models.ActionTiming{Type: models.TimingImmediate}},
		},
		ConfidenceScore: 0.9,
	}
}

func TestAnalyzeEndpointAwaitsHorizon(t *testing.T) {
	e, _ := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodPost, "/api/scenario/analyze",
		`{"decision_text":"buy 100 shares of AAPL"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", env.Status)
	}

	var ep models.ScenarioEpisode
	if err := json.Unmarshal(env.Data, &ep); err != nil {
		t.Fatal(err)
	}
	if ep.State != models.StateAwaitingHorizon {
		t.Errorf("state = %s, want awaiting_horizon", ep.State)
	}
	if ep.Token < 1 {
		t.Errorf("token = %d, want >= 1", ep.Token)
	}
}

func TestAnalyzeEndpointRejectsMissingText(t *testing.T) {
	e, _ := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodPost, "/api/scenario/analyze", `{}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400", env.Status)
	}
}

func TestHorizonEndpointResolvesEpisode(t *testing.T) {
	e, flow := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodPost, "/api/scenario/analyze",
		`{"decision_text":"buy 100 shares of AAPL"}`)
	env := decodeEnvelope(t, rec)
	var ep models.ScenarioEpisode
	if err := json.Unmarshal(env.Data, &ep); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(models.HorizonRequest{
		Token:     ep.Token,
		Category:  string(models.SwingTrade),
		Magnitude: 5,
	})
	rec = doJSON(e, http.MethodPost, "/api/scenario/horizon", string(body))
	env = decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200: %s", env.Status, env.Data)
	}
	if err := json.Unmarshal(env.Data, &ep); err != nil {
		t.Fatal(err)
	}
	if ep.State != models.StateResolved {
		t.Fatalf("state = %s, want resolved", ep.State)
	}
	if len(ep.Outcomes) == 0 {
		t.Error("resolved episode has no outcomes")
	}
	if got := flow.Snapshot().State; got != models.StateResolved {
		t.Errorf("snapshot state = %s, want resolved", got)
	}
}

func TestHorizonEndpointRejectsStaleToken(t *testing.T) {
	e, _ := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodPost, "/api/scenario/analyze",
		`{"decision_text":"buy 100 shares of AAPL"}`)
	decodeEnvelope(t, rec)

	rec = doJSON(e, http.MethodPost, "/api/scenario/horizon",
		`{"token":999,"category":"swing_trade","magnitude":5}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusConflict {
		t.Errorf("envelope status = %d, want 409", env.Status)
	}
}

func TestHorizonEndpointRejectsOutOfRangeMagnitude(t *testing.T) {
	e, _ := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodPost, "/api/scenario/analyze",
		`{"decision_text":"buy 100 shares of AAPL"}`)
	env := decodeEnvelope(t, rec)
	var ep models.ScenarioEpisode
	if err := json.Unmarshal(env.Data, &ep); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(models.HorizonRequest{
		Token:     ep.Token,
		Category:  string(models.SwingTrade),
		Magnitude: 30,
	})
	rec = doJSON(e, http.MethodPost, "/api/scenario/horizon", string(body))
	env = decodeEnvelope(t, rec)
	if env.Status != http.StatusBadRequest {
		t.Errorf("envelope status = %d, want 400: %s", env.Status, env.Data)
	}
}

func TestCategoriesEndpointListsBounds(t *testing.T) {
	e, _ := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodGet, "/api/scenario/categories", "")
	env := decodeEnvelope(t, rec)

	var cats []struct {
		Category string  `json:"category"`
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Unit     string  `json:"unit"`
	}
	if err := json.Unmarshal(env.Data, &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 4 {
		t.Fatalf("categories = %d, want 4", len(cats))
	}
	for _, c := range cats {
		if c.Min <= 0 || c.Max <= c.Min || c.Unit == "" {
			t.Errorf("bad bounds for %s: %+v", c.Category, c)
		}
	}
}

func TestStateEndpointStartsIdle(t *testing.T) {
	e, _ := newTestHandler(t, ambiguousDecision())

	rec := doJSON(e, http.MethodGet, "/api/scenario/state", "")
	env := decodeEnvelope(t, rec)
	var ep models.ScenarioEpisode
	if err := json.Unmarshal(env.Data, &ep); err != nil {
		t.Fatal(err)
	}
	if ep.State != models.StateIdle {
		t.Errorf("state = %s, want idle", ep.State)
	}
}
