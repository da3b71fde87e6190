// @title                       Order Tracking API
// @version                     1.0
// @description                 Order lifecycle, live driver location and ETA for a delivery platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/portesillo/tracking-service/internal/api"
	"github.com/portesillo/tracking-service/internal/api/handler"
	"github.com/portesillo/tracking-service/internal/core/service"
	"github.com/portesillo/tracking-service/internal/infrastructure/db/mongo"
	"github.com/portesillo/tracking-service/internal/infrastructure/db/redis"
	"github.com/portesillo/tracking-service/internal/infrastructure/queue"
	"github.com/portesillo/tracking-service/internal/jobs"
	"github.com/portesillo/tracking-service/internal/pkg/config"
	"github.com/portesillo/tracking-service/internal/realtime"
	"github.com/portesillo/tracking-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "tracking-service",
		Env:     cfg.Env,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	orderRepo := mongo.NewOrderRepository(db, cfg.Tracking.StoreTimeout)
	partyRepo := mongo.NewPartyRepository(db, cfg.Tracking.StoreTimeout)
	notificationRepo := mongo.NewNotificationRepository(db, cfg.Tracking.StoreTimeout)

	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create order indexes")
	}
	if err := notificationRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create notification indexes")
	}

	// --- Per-order serialization ---
	serializer := queue.NewDispatcher(cfg.Tracking.SerialWorkers, log)
	serializer.Start(ctx)

	// --- Notifications ---
	sinks := []queue.Sink{{Name: "mongo", Dispatcher: notificationRepo}}
	if cfg.Kafka.Brokers != "" {
		publisher := queue.NewKafkaPublisher(queue.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic))
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, queue.Sink{Name: "kafka", Dispatcher: publisher})
		log.Info().Str("topic", cfg.Kafka.NotificationTopic).Msg("kafka notification sink enabled")
	}
	outbox := queue.NewOutbox(cfg.Tracking.OutboxBuffer, queue.NewFanout(sinks...), log)
	outbox.Start(ctx)

	// --- Realtime ---
	hub := newHub(ctx, rdb, cfg.Redis.RelayChannel, log)

	tracking := service.NewTrackingService(service.TrackingDeps{
		Orders:     orderRepo,
		Parties:    partyRepo,
		Hub:        hub,
		Dispatcher: outbox,
		Serializer: serializer,
		Dedup:      redis.NewDedupChecker(rdb, cfg.Tracking.DedupTTL),
	}, logger.Component("tracking_service"))
	orders := service.NewOrderService(orderRepo, outbox, logger.Component("order_service"))

	gateway := realtime.NewGateway(hub, tracking, handler.NewValidator(), log)

	// --- Jobs ---
	statsJob := jobs.NewActiveOrdersJob(tracking, cfg.Tracking.StatsCron, log)
	if err := statsJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start active orders job")
	}

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		DB:        db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Orders:    orders,
		Tracking:  tracking,
		Gateway:   gateway,
		Log:       log,
	})
	if !cfg.AuthEnabled() {
		log.Warn().Msg("JWT_SECRET not set; trusting X-User-Role and X-User-ID headers")
	}

	// No read/write timeouts: tracking sockets manage their own deadlines.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down tracking-service...")

	statsJob.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server forced shutdown")
	}

	// Stops the serializer, the outbox and the relay subscription.
	cancel()

	log.Info().Msg("tracking-service stopped")
}

// newHub wires the Redis relay when a channel is configured so rooms span
// every replica; otherwise the hub delivers locally.
func newHub(ctx context.Context, rdb *goredis.Client, channel string, log zerolog.Logger) *realtime.Hub {
	if channel == "" {
		return realtime.NewHub(nil, log)
	}

	relay := redis.NewRelay(rdb, channel, log)
	hub := realtime.NewHub(relay, log)
	go func() {
		if err := relay.Run(ctx, hub.Deliver); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("relay stopped")
		}
	}()
	log.Info().Str("channel", channel).Msg("redis relay enabled")
	return hub
}
