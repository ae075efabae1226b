package decision

import (
	"context"
	"fmt"

	domsvc "HorizonSim/internal/domain/service"
	"HorizonSim/pkg/config"
)

type HTTPVolatilityProvider struct {
	base     *HTTPServiceBase
	attempts int
}

func NewHTTPVolatilityProvider(cfg *config.Config) *HTTPVolatilityProvider {
	return &HTTPVolatilityProvider{
		base:     NewHTTPServiceBase(cfg.Decision.ComparisonURL, cfg.Decision.Timeout),
		attempts: cfg.Decision.RetryAttempts,
	}
}

type analyzeReq struct {
	DecisionText string `json:"decision_text"`
}

type analyzeResp struct {
	ScenarioVolatility float64 `json:"scenario_volatility"`
}

// ScenarioVolatility asks the comparison service for the annualized
// volatility percentage to simulate with. A negative upstream value is
// rejected at this boundary so the simulator never sees it.
func (p *HTTPVolatilityProvider) ScenarioVolatility(ctx context.Context, decisionText string) (float64, error) {
	var resp analyzeResp
	err := p.base.PostJSONWithRetry(ctx, "/api/v1/portfolio/analyze", analyzeReq{DecisionText: decisionText}, &resp, p.attempts)
	if err != nil {
		return 0, fmt.Errorf("scenario volatility: %w", err)
	}
	if resp.ScenarioVolatility < 0 {
		return 0, fmt.Errorf("scenario volatility: upstream returned negative value %.2f", resp.ScenarioVolatility)
	}
	return resp.ScenarioVolatility, nil
}

// StaticVolatilityProvider returns a fixed volatility. Used when no
// comparison service is configured and by the offline simulate command.
type StaticVolatilityProvider struct {
	VolPct float64
}

func (p StaticVolatilityProvider) ScenarioVolatility(context.Context, string) (float64, error) {
	if p.VolPct < 0 {
		return 0, fmt.Errorf("scenario volatility: configured value %.2f is negative", p.VolPct)
	}
	return p.VolPct, nil
}

var (
	_ domsvc.VolatilityProvider = (*HTTPVolatilityProvider)(nil)
	_ domsvc.VolatilityProvider = StaticVolatilityProvider{}
)
