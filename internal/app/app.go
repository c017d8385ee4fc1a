// Package app собирает приложение: хранилище, модель, движок мутаций,
// ассистента и HTTP-поверхности (chat API, MCP, метрики).
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/signal-orders/internal/health"
	"github.com/vladislavdragonenkov/signal-orders/internal/llm"
	"github.com/vladislavdragonenkov/signal-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/signal-orders/internal/metrics"
	"github.com/vladislavdragonenkov/signal-orders/internal/resolver"
	"github.com/vladislavdragonenkov/signal-orders/internal/seed"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/assistant"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/mutation"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/tools"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/edgeconfig"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/file"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/memory"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/postgres"
	"github.com/vladislavdragonenkov/signal-orders/internal/version"
)

// Run запускает приложение и блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.WithField("build", version.String()).Info("запуск ассистента заказов")

	store, closeStore, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, err := llm.FromEnv()
	if err != nil {
		return err
	}
	retryable := llm.NewRetryableProvider(provider, llm.DefaultRetryConfig())
	logger.WithField("provider", provider.Name()).Info("llm provider initialized")

	assistantMetrics := metrics.NewAssistantMetrics()

	// Kafka подключается опционально: без брокеров мутации просто не
	// публикуют события.
	engineOpts := []mutation.Option{mutation.WithMetrics(assistantMetrics)}
	var kafkaProducer *kafka.Producer
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			kafkaProducer = producer
			engineOpts = append(engineOpts, mutation.WithPublisher(producer))
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
		}
	}
	defer func() {
		if kafkaProducer == nil {
			return
		}
		if err := kafkaProducer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}()

	engine := mutation.NewEngine(store, resolver.New(), engineOpts...)
	asst := assistant.New(engine, retryable, assistant.WithMetrics(assistantMetrics))

	appVersion, _, _ := version.Info()
	mcpHTTP := mcpserver.NewStreamableHTTPServer(
		tools.NewServer(engine, appVersion),
		mcpserver.WithEndpointPath("/api/mcp"),
	)

	mux := http.NewServeMux()
	NewAPI(asst, engine).Register(mux)
	mux.Handle("/api/mcp", mcpHTTP)

	healthHandler := healthcheck.NewHandler(appVersion)
	healthHandler.RegisterChecker("storage", healthcheck.NewStorageChecker(store))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// RunStdio поднимает только MCP-сервер поверх stdio: режим для MCP-клиентов,
// которые запускают сервис как дочерний процесс.
func RunStdio(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	store, closeStore, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := mutation.NewEngine(store, resolver.New())
	appVersion, _, _ := version.Info()

	logger.Info("serving MCP over stdio")
	return mcpserver.ServeStdio(tools.NewServer(engine, appVersion))
}

// buildStorage создаёт хранилище по конфигурации. Возвращаемая функция
// освобождает ресурсы бэкенда.
func buildStorage(ctx context.Context, cfg Config, logger *log.Entry) (domain.Storage, func(), error) {
	noop := func() {}

	switch cfg.Storage {
	case StorageMemory:
		logger.Info("using in-memory storage seeded with sample orders")
		return memory.NewStoreWith(seed.Orders()), noop, nil

	case StorageFile:
		logger.WithField("path", cfg.DataFile).Info("using file storage")
		return file.NewStore(cfg.DataFile, logger), noop, nil

	case StorageEdgeConfig:
		if cfg.EdgeConfigURL == "" {
			return nil, noop, fmt.Errorf("edgeconfig storage requires SIGNAL_EDGE_CONFIG_URL")
		}
		logger.WithField("url", cfg.EdgeConfigURL).Info("using edge config storage")
		return edgeconfig.NewStore(cfg.EdgeConfigURL, logger), noop, nil

	case StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, noop, fmt.Errorf("postgres storage requires SIGNAL_POSTGRES_DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using postgres storage")
		return store, func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres storage")
			}
		}, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend: %s", cfg.Storage)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
