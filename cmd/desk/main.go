package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"descanso/internal/api"
	"descanso/internal/config"
	"descanso/internal/domain"
	"descanso/internal/events"
	"descanso/internal/export"
	"descanso/internal/logging"
	"descanso/internal/loyalty"
	"descanso/internal/metrics"
	"descanso/internal/repository"
	"descanso/internal/service"
	"descanso/internal/store"
	"descanso/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := initStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable at startup, failover will retry")
		}
		defer repository.Close(redisClient)
	}

	sessions := initSessions(cfg, redisClient, logger)
	startMetrics(ctx, cfg, logger)

	dispatcher := worker.NewHousekeepingDispatcher(st, redisClient, worker.RetryPolicy{}, logger)
	go dispatcher.Start(ctx)

	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, logger)

	calc := loyalty.NewCalculator(cfg.Loyalty.PointsPerDiscount)
	bookingService := service.NewBookingService(st, eventBus, logger)
	checkoutService := service.NewCheckoutService(st, calc, eventBus, dispatcher, logger)
	clientService := service.NewClientService(st, logger)
	employeeService := service.NewEmployeeService(st, sessions,
		cfg.Desk.RateLimitActions, time.Duration(cfg.Desk.RateLimitWindow)*time.Second, logger)
	menuService := service.NewMenuService(st, bookingService, logger)
	requestService := service.NewRequestService(st, dispatcher, logger)

	if err := employeeService.EnsureDefaultAdmin(ctx, cfg.Desk.AdminEmail, cfg.Desk.AdminPassword); err != nil {
		return err
	}

	if cfg.Backup.Enabled {
		backupService := store.NewBackupService(cfg.Storage.Path, cfg.Backup, logger)
		go backupService.Start(ctx)
	}

	if !cfg.API.Enabled {
		logger.Info().Msg("API disabled, running background services only")
		<-ctx.Done()
		return nil
	}

	reporter := export.NewReporter(st, cfg.Exports.Path, logger)
	httpServer := api.NewHTTPServer(cfg.API, bookingService, checkoutService, clientService, menuService, requestService, employeeService, reporter, logger)
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "desk-main").Logger()
	return cfg, &logger, closer, nil
}

func initStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*store.Store, error) {
	st, err := store.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := st.SyncRooms(ctx, cfg.Rooms); err != nil {
		st.Close()
		return nil, fmt.Errorf("sync rooms: %w", err)
	}
	return st, nil
}

// initSessions wires the failover session repository: Redis as primary
// with an in-memory fallback, memory only when Redis is not configured.
func initSessions(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SessionRepository {
	ttl := time.Duration(cfg.Desk.SessionTTL) * time.Second
	memory := repository.NewMemorySessionRepository(ttl)

	if redisClient == nil {
		logger.Info().Msg("redis not configured, sessions kept in memory")
		return memory
	}

	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func subscribeEvents(eventBus *events.EventBus, logger *zerolog.Logger) {
	eventLogger := logger.With().Str("component", "events").Logger()

	for _, eventType := range []string{
		events.EventStayCreated,
		events.EventChargeAdded,
		events.EventStayCompleted,
		events.EventPointsCredited,
		events.EventCleaningRequested,
	} {
		et := eventType
		eventBus.Subscribe(et, func(event *events.Event) error {
			eventLogger.Debug().Str("event_type", et).RawJSON("payload", event.Payload).Msg("event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
