package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flightstats-service/internal/domain/repository"
	"flightstats-service/internal/infrastructure/config"
	"flightstats-service/internal/infrastructure/lease"
	"flightstats-service/internal/infrastructure/persistence"
	"flightstats-service/internal/infrastructure/scheduler"
	"flightstats-service/internal/interface/handler"
	"flightstats-service/internal/interface/lookup"
	repoImpl "flightstats-service/internal/interface/repository"
	"flightstats-service/internal/usecase"
	"flightstats-service/pkg/logger"
	"flightstats-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting FlightStats Service", "version", cfg.AppVersion)

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Relational store
	var store repository.Store
	if cfg.PostgresDSN != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgres(cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		if err := repoImpl.AutoMigrate(gormDB); err != nil {
			log.Fatal("Failed to migrate PostgreSQL schema", "error", err)
		}
		store = repoImpl.NewGormStore(gormDB)
	} else {
		airports := repoImpl.ReferenceAirports()
		log.Warn("POSTGRES_DSN not set, using in-memory store with reference airports", "airports", len(airports))
		mem := repoImpl.NewMemoryStore()
		mem.SeedAirports(airports...)
		store = mem
	}

	// Tracking job definitions
	var (
		jobRepo     repository.TrackingJobRepository
		mongoClient *mongo.Client
	)
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		var mongoDB *mongo.Database
		mongoClient, mongoDB, err = persistence.NewMongoDatabase(ctx, persistence.MongoOptions{
			URI:      cfg.MongoURI,
			Username: cfg.MongoUser,
			Password: cfg.MongoPassword,
			Database: cfg.MongoDB,
			AppName:  "flightstats-service",
		})
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		jobRepo = repoImpl.NewMongoTrackingJobRepository(mongoDB, cfg.SchedulerLocation, log)
	} else {
		log.Warn("MONGODB_DSN not set, tracking jobs will not survive restarts")
		jobRepo = repoImpl.NewMemoryTrackingJobRepository()
	}

	// Provider lease
	var providerLease repository.ProviderLease
	if cfg.RedisAddr != "" {
		log.Info("Connecting to Redis", "addr", cfg.RedisAddr)
		redisClient, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTLS)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
		providerLease = lease.NewRedisLease(redisClient, cfg.ProviderLeaseKey, cfg.ProviderLeaseTTL, log)
	} else {
		providerLease = lease.NewLocalLease()
	}

	// Price lookup provider
	var provider repository.PriceLookupProvider
	switch cfg.LookupProvider {
	case "stub":
		log.Warn("Using stub price lookup provider", "flights", cfg.StubFlightNumbers)
		provider = lookup.NewStubProvider(cfg.StubFlightNumbers...)
	default:
		provider = lookup.NewHTTPProvider(
			cfg.LookupBaseURL,
			cfg.LookupTimeout,
			lookup.NewRateLimit(cfg.LookupRateLimit, cfg.LookupRateWindow),
		)
	}

	// Scheduler and usecases
	registry := scheduler.NewCronRegistry(cfg.SchedulerLocation, cfg.TickTimeout, log, m)
	tracker := usecase.NewTracker(store, jobRepo, registry, provider, providerLease, log, m)
	stats := usecase.NewStats(store, provider, providerLease, cfg.SchedulerLocation, log, m)
	flights := usecase.NewFlights(store, tracker, provider, providerLease, log, m)

	if _, err := tracker.Restore(ctx); err != nil {
		log.Error("Failed to restore tracking jobs", "error", err)
	}
	registry.Start()

	// Set up HTTP server
	h := handler.NewHandler(tracker, stats, flights, cfg.SchedulerLocation, log, m)
	e := handler.NewRouter(h, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	registry.Stop(shutdownCtx)
	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("FlightStats Service stopped")
}
