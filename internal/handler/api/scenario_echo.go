package api

import (
	"errors"

	models "HorizonSim/internal/domain/models"
	"HorizonSim/internal/service/ratelimit"
	"HorizonSim/internal/usecase"
	xhttp "HorizonSim/pkg/http"
	xlogger "HorizonSim/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Analyze triggers an upstream NLP call, so it gets a per-client token
// bucket. Selection and read endpoints stay unlimited.
const (
	analyzeBurst     = 5
	analyzePerSecond = 1
)

// ScenarioEchoHandler exposes the scenario-simulation view endpoints.
type ScenarioEchoHandler struct {
	logger  *xlogger.Logger
	flow    *usecase.ScenarioFlow
	stream  *StreamHub
	limiter *ratelimit.Limiter
}

func NewScenarioEchoHandler(logger *xlogger.Logger, flow *usecase.ScenarioFlow, stream *StreamHub) *ScenarioEchoHandler {
	return &ScenarioEchoHandler{logger: logger, flow: flow, stream: stream, limiter: ratelimit.New()}
}

func (h *ScenarioEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/scenario")
	g.POST("/analyze", h.Analyze)
	g.POST("/horizon", h.Horizon)
	g.GET("/state", h.State)
	g.GET("/categories", h.Categories)
	if h.stream != nil {
		g.GET("/stream", h.stream.Serve)
	}
}

// Analyze runs decision text through parse, gate, and classification; the
// response is the settled episode (gated, awaiting a pick, or resolved when
// the horizon was inferred).
func (h *ScenarioEchoHandler) Analyze(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), analyzeBurst, analyzePerSecond) {
		return xhttp.AppErrorResponse(c, xhttp.RateLimitError("too many analyze requests"))
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ep, err := h.flow.Analyze(c.Request().Context(), req.DecisionText)
	if err != nil {
		return h.episodeError(c, err)
	}
	return xhttp.SuccessResponse(c, ep)
}

// Horizon completes an awaiting episode with the user's category/magnitude pick.
func (h *ScenarioEchoHandler) Horizon(c echo.Context) error {
	req := &models.HorizonRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sel := models.HorizonSelection{
		Category:  models.HorizonCategory(req.Category),
		Magnitude: req.Magnitude,
	}
	ep, err := h.flow.SelectHorizon(c.Request().Context(), req.Token, sel)
	if err != nil {
		return h.episodeError(c, err)
	}
	return xhttp.SuccessResponse(c, ep)
}

// State returns the current episode snapshot for polling clients.
func (h *ScenarioEchoHandler) State(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.flow.Snapshot())
}

// Categories lists the horizon buckets and their slider bounds.
func (h *ScenarioEchoHandler) Categories(c echo.Context) error {
	type categoryInfo struct {
		Category models.HorizonCategory `json:"category"`
		models.CategoryBounds
	}
	out := make([]categoryInfo, 0, 4)
	for _, cat := range models.AllCategories() {
		b, _ := cat.Bounds()
		out = append(out, categoryInfo{Category: cat, CategoryBounds: b})
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *ScenarioEchoHandler) episodeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrDecisionTooShort):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	case errors.Is(err, usecase.ErrStaleToken), errors.Is(err, usecase.ErrNotAwaiting):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()).WithError(err))
	case errors.Is(err, models.ErrMagnitudeOutOfRange), errors.Is(err, models.ErrUnknownCategory):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	}
	h.logger.Error("scenario flow error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.UpstreamError("scenario pipeline failed").WithError(err))
}
