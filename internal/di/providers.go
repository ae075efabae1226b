package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"HorizonSim/internal/domain/repository"
	domsvc "HorizonSim/internal/domain/service"
	"HorizonSim/internal/handler/api"
	mid "HorizonSim/internal/middleware"
	internalrepo "HorizonSim/internal/repository"
	"HorizonSim/internal/services/decision"
	"HorizonSim/internal/services/horizon"
	"HorizonSim/internal/services/montecarlo"
	"HorizonSim/internal/usecase"
	pkgcache "HorizonSim/pkg/cache"
	"HorizonSim/pkg/config"
	xhttp "HorizonSim/pkg/http"
	pkgkafka "HorizonSim/pkg/kafka"
	applogger "HorizonSim/pkg/logger"
	"HorizonSim/pkg/metrics"
	"HorizonSim/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheService picks the memoization cache backend. With Redis
// enabled the memory tier fronts it; otherwise memory-only.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", cfg.Cache.Redis.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc,
		pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
	), nil
}

// ProvideOutcomeCache wraps the cache service as an outcome memo store.
func ProvideOutcomeCache(svc pkgcache.Service, cfg *config.Config) repository.OutcomeCache {
	return internalrepo.NewCachedOutcomeStore(svc, cfg.Simulation.CacheTTL)
}

// ProvideEpisodePublisher creates the Kafka episode publisher when enabled.
// Returns nil when Kafka is disabled; the flow treats telemetry as optional.
func ProvideEpisodePublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEpisodePublisher(producer, cfg.Kafka.EpisodeTopic), nil
}

// ProvideDecisionParser creates the upstream NLP parser client.
func ProvideDecisionParser(cfg *config.Config) domsvc.DecisionParser {
	return decision.NewHTTPDecisionParser(cfg)
}

// ProvideVolatilityProvider creates the portfolio volatility client,
// falling back to the configured static value when no URL is set.
func ProvideVolatilityProvider(cfg *config.Config) domsvc.VolatilityProvider {
	if cfg.Decision.ComparisonURL == "" {
		return decision.StaticVolatilityProvider{VolPct: cfg.Simulation.DefaultVolPct}
	}
	return decision.NewHTTPVolatilityProvider(cfg)
}

// ProvideAutoRunPolicy creates the horizon classifier.
func ProvideAutoRunPolicy() domsvc.AutoRunPolicy {
	return horizon.NewClassifier()
}

// ProvideSimulator creates the Monte Carlo simulator from config.
func ProvideSimulator(cfg *config.Config) *montecarlo.Simulator {
	return montecarlo.NewSimulator(
		montecarlo.WithDailyDrift(cfg.Simulation.DailyDrift),
		montecarlo.WithPaths(cfg.Simulation.Paths),
	)
}

// ProvideSimPipeline creates the single-worker simulation pipeline.
func ProvideSimPipeline(m repository.Metrics, cfg *config.Config) *mid.SimPipeline {
	return mid.NewSimPipeline(m, mid.WithQueueSize(cfg.Simulation.QueueSize))
}

// ProvideScenarioFlow creates the scenario flow controller.
func ProvideScenarioFlow(
	parser domsvc.DecisionParser,
	vol domsvc.VolatilityProvider,
	policy domsvc.AutoRunPolicy,
	sim *montecarlo.Simulator,
	pipeline *mid.SimPipeline,
	cache repository.OutcomeCache,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.ScenarioFlow {
	return usecase.NewScenarioFlow(parser, vol, policy, sim, pipeline, cache, m, logger)
}

// ProvideStreamHub creates the WebSocket broadcast hub.
func ProvideStreamHub(logger *applogger.Logger) *api.StreamHub {
	return api.NewStreamHub(logger)
}

// ProvideHTTPHandler creates the scenario HTTP handler.
func ProvideHTTPHandler(logger *applogger.Logger, flow *usecase.ScenarioFlow, hub *api.StreamHub) xhttp.Handler {
	return api.NewScenarioEchoHandler(logger, flow, hub)
}

// ProvideApp creates the application server and wires optional sinks.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	flow *usecase.ScenarioFlow,
	pipeline *mid.SimPipeline,
	hub *api.StreamHub,
	events repository.EventPublisher,
	cache pkgcache.Service,
	handler xhttp.Handler,
) *server.App {
	flow.SetNotifier(hub)
	if events != nil {
		flow.SetEventPublisher(events)
		if pub, ok := events.(applogger.Publisher); ok {
			logger.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          cfg.Kafka.EpisodeTopic + ".logs",
				Publisher:      pub,
			})
		}
	}
	return server.New(cfg, logger, flow, pipeline, hub, events, cache, handler)
}
