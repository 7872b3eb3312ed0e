package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"londonpark/internal/boundary"
	"londonpark/internal/config"
	"londonpark/internal/domain"
	"londonpark/internal/events"
	"londonpark/internal/export"
	"londonpark/internal/journal"
	"londonpark/internal/logging"
	"londonpark/internal/metrics"
	"londonpark/internal/models"
	"londonpark/internal/repository"
	"londonpark/internal/service"

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
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "console-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := adminSessionFromEnv()
	if session.Token == "" {
		logger.Error().Msg("ADMIN_TOKEN is not set")
		return os.ErrInvalid
	}

	client := boundary.New(cfg.Boundary.BaseURL, cfg.BoundaryTimeout(), &logger)
	if cfg.Boundary.RateLimit.RPS > 0 {
		client.UseRateLimit(cfg.Boundary.RateLimit.RPS, cfg.Boundary.RateLimit.Burst)
	}

	redisClient := initRedis(ctx, cfg, client, &logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	journalStore, err := initJournal(cfg, &logger)
	if err != nil {
		return err
	}
	var journalSink domain.Journal
	if journalStore != nil {
		defer journalStore.Close()
		journalSink = journalStore
	}

	collections := repository.NewCollections()
	confirms := initConfirmations(cfg, redisClient, &logger)
	eventBus := events.NewEventBus()

	adminService := service.NewAdminService(client, collections, confirms, eventBus, journalSink, cfg.ConfirmTTL(), &logger)
	exporter := export.New(cfg.Exports.Path, &logger)
	subscribeMutationEvents(eventBus, adminService, exporter, &logger)

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	if err := adminService.RefreshAll(ctx, session); err != nil {
		logger.Error().Err(err).Msg("initial refresh failed")
		return err
	}
	logger.Info().
		Int("users", len(adminService.Users())).
		Int("events", len(adminService.Events())).
		Int("bookings", len(adminService.Bookings())).
		Msg("console ready")

	runRefreshLoop(ctx, adminService, session, &logger)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func adminSessionFromEnv() models.Session {
	return models.Session{
		Role:  models.RoleAdmin,
		Token: os.Getenv("ADMIN_TOKEN"),
	}
}

func initRedis(ctx context.Context, cfg *config.Config, client *boundary.Client, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}
	client.UseRedisCache(redisClient, cfg.CacheTTL())
	return redisClient
}

func initJournal(cfg *config.Config, logger *zerolog.Logger) (*journal.Journal, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Error().Err(err).Msg("journal init failed")
		return nil, err
	}
	return store, nil
}

func initConfirmations(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.ConfirmationRepository {
	memory := repository.NewMemoryConfirmationRepository(cfg.ConfirmTTL())
	if redisClient == nil {
		return memory
	}
	primary := repository.NewRedisConfirmationRepository(redisClient, cfg.ConfirmTTL())
	return repository.NewFailoverConfirmationRepository(primary, memory, logger)
}

// subscribeMutationEvents refreshes the bookings export whenever a booking
// is deleted through the console.
func subscribeMutationEvents(bus *events.EventBus, adminService *service.AdminService, exporter *export.Exporter, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingDeleted, func(ev *events.Event) error {
		var payload events.MutationEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		path, err := exporter.ExportBookings(adminService.Bookings())
		if err != nil {
			logger.Error().Err(err).Msg("event bus: bookings export")
			return nil
		}
		logger.Info().Str("file_path", path).Int64("entity_id", payload.EntityID).Msg("bookings export refreshed")
		return nil
	})
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info().Int("port", port).Msg("metrics server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

// runRefreshLoop keeps the local snapshots warm until shutdown. Mutations
// triggered elsewhere refetch on their own; this only covers drift from
// changes made outside the console.
func runRefreshLoop(ctx context.Context, adminService *service.AdminService, session models.Session, logger *zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := adminService.RefreshAll(ctx, session); err != nil {
				logger.Warn().Err(err).Msg("periodic refresh failed")
			}
		}
	}
}
