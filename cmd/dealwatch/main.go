package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/dealwatch/internal/api"
	"github.com/maltedev/dealwatch/internal/comparator"
	"github.com/maltedev/dealwatch/internal/config"
	"github.com/maltedev/dealwatch/internal/database"
	"github.com/maltedev/dealwatch/internal/events"
	"github.com/maltedev/dealwatch/internal/fetcher"
	"github.com/maltedev/dealwatch/internal/models"
	"github.com/maltedev/dealwatch/internal/ratelimit"
	"github.com/maltedev/dealwatch/internal/retailers"
	"github.com/maltedev/dealwatch/internal/scheduler"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection
	db, err := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis client for the outbox relay
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	relay := database.NewRelay(db, redisClient, logger, database.RelayConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	// Price-discovery engine
	fetch := fetcher.New(fetcher.Options{
		MaxRetries: cfg.Scraper.MaxRetries,
		RetryDelay: cfg.Scraper.RetryDelay,
		Timeout:    cfg.Scraper.RequestTimeout,
	}, logger)

	limiter := ratelimit.NewSearchLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax)

	global := comparator.New(buildStrategies(cfg.Scraper.Retailers, fetch, logger), limiter, logger)
	regional := comparator.New(buildStrategies(models.IndianRetailers, fetch, logger), limiter, logger)

	// Eventing and refresh cycle
	publisher := events.NewPublisher(db, logger)
	sched := scheduler.New(db, global, publisher, scheduler.Config{
		UpdateInterval:       cfg.Scheduler.UpdateInterval,
		DropThresholdPercent: cfg.Scheduler.DropThresholdPercent,
	}, logger)
	go func() {
		if err := sched.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("scheduler stopped with error", "error", err)
		}
	}()

	// HTTP surface
	handlers := api.NewHandlers(db, regional, sched, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	handlers.Routes(r)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "addr", server.Addr, "retailers", cfg.Scraper.Retailers)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildStrategies maps configured retailer IDs to strategies,
// preserving the configured order. Unknown IDs are skipped with a
// warning so a typo in SCRAPER_RETAILERS degrades instead of failing.
func buildStrategies(ids []models.Retailer, fetch *fetcher.Fetcher, logger *slog.Logger) []retailers.Strategy {
	var strategies []retailers.Strategy
	for _, id := range ids {
		switch id {
		case models.RetailerAmazon:
			strategies = append(strategies, retailers.NewAmazon(fetch, logger))
		case models.RetailerWalmart:
			strategies = append(strategies, retailers.NewWalmart(fetch, logger))
		case models.RetailerFlipkart:
			strategies = append(strategies, retailers.NewFlipkart(fetch, logger))
		case models.RetailerMyntra:
			strategies = append(strategies, retailers.NewMyntra(fetch, logger))
		case models.RetailerAjio:
			strategies = append(strategies, retailers.NewAjio(fetch, logger))
		default:
			logger.Warn("unknown retailer in configuration", "retailer", id)
		}
	}
	return strategies
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
