package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "HorizonSim/internal/domain/repository"
	"HorizonSim/internal/handler/api"
	"HorizonSim/internal/middleware"
	"HorizonSim/internal/usecase"
	pkgcache "HorizonSim/pkg/cache"
	"HorizonSim/pkg/config"
	xhttp "HorizonSim/pkg/http"
	applogger "HorizonSim/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	flow       *usecase.ScenarioFlow
	pipeline   *middleware.SimPipeline
	hub        *api.StreamHub
	events     domrepo.EventPublisher
	cache      pkgcache.Service
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	flow *usecase.ScenarioFlow,
	pipeline *middleware.SimPipeline,
	hub *api.StreamHub,
	events domrepo.EventPublisher,
	cache pkgcache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		flow:     flow,
		pipeline: pipeline,
		hub:      hub,
		events:   events,
		cache:    cache,
		handler:  handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.pipeline.Start(ctx)
	a.logger.Info("simulation pipeline started")

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.hub != nil {
		a.hub.Close()
	}

	a.pipeline.Stop()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.events != nil {
		a.logger.RemoveCollector()
		if err := a.events.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
