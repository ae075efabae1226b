package decision

import (
	"context"
	"fmt"

	"HorizonSim/internal/domain/models"
	domsvc "HorizonSim/internal/domain/service"
	"HorizonSim/pkg/config"
)

type HTTPDecisionParser struct {
	base     *HTTPServiceBase
	attempts int
}

func NewHTTPDecisionParser(cfg *config.Config) *HTTPDecisionParser {
	return &HTTPDecisionParser{
		base:     NewHTTPServiceBase(cfg.Decision.ParseURL, cfg.Decision.Timeout),
		attempts: cfg.Decision.RetryAttempts,
	}
}

type parseReq struct {
	DecisionText string `json:"decision_text"`
}

// Parse sends free decision text to the external parsing service.
func (p *HTTPDecisionParser) Parse(ctx context.Context, decisionText string) (models.ParsedDecision, error) {
	var parsed models.ParsedDecision
	err := p.base.PostJSONWithRetry(ctx, "/api/v1/decision/parse", parseReq{DecisionText: decisionText}, &parsed, p.attempts)
	if err != nil {
		return models.ParsedDecision{}, fmt.Errorf("parse decision: %w", err)
	}
	return parsed, nil
}

var _ domsvc.DecisionParser = (*HTTPDecisionParser)(nil)
