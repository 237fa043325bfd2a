package main

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/maltedev/amazon-seller-scraper/internal/api"
	"github.com/maltedev/amazon-seller-scraper/internal/browser"
	"github.com/maltedev/amazon-seller-scraper/internal/config"
	"github.com/maltedev/amazon-seller-scraper/internal/database"
	"github.com/maltedev/amazon-seller-scraper/internal/events"
	"github.com/maltedev/amazon-seller-scraper/internal/exchange"
	"github.com/maltedev/amazon-seller-scraper/internal/fetch"
	"github.com/maltedev/amazon-seller-scraper/internal/jobs"
	"github.com/maltedev/amazon-seller-scraper/internal/scraper"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

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

	db, err := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

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
		PollInterval: cfg.Jobs.PollInterval,
		BatchSize:    cfg.Jobs.RelayBatch,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	var fetcher fetch.Fetcher
	if cfg.Scraper.UseBrowser {
		b, err := browser.New(&browser.Options{
			Headless: true,
			Timeout:  cfg.Scraper.RequestTimeout,
		})
		if err != nil {
			logger.Error("failed to initialize browser", "error", err)
			os.Exit(1)
		}
		defer b.Close()
		fetcher = b
	} else {
		fetcher = fetch.NewClient(cfg.Scraper)
	}

	rates := exchange.NewClient(cfg.Scraper, redisClient)
	scraperService := scraper.New(cfg.Scraper, fetcher, rates)

	publisher := events.NewPublisher(db, logger)
	jobManager := jobs.NewManager(db, scraperService, publisher, logger)
	go jobManager.StartWorker(ctx, cfg.Jobs.PollInterval)

	handlers := api.NewHandlers(scraperService, jobManager, db, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		pendingCount, _ := relay.GetPendingCount(req.Context())
		deadLetterCount, _ := relay.GetDeadLetterCount(req.Context())

		health := map[string]any{
			"status": "ok",
			"outbox": map[string]any{
				"pending":     pendingCount,
				"dead_letter": deadLetterCount,
			},
		}

		status := http.StatusOK
		if pendingCount > 1000 {
			health["status"] = "warning"
			health["message"] = "High number of pending outbox events"
		}
		if deadLetterCount > 100 {
			health["status"] = "error"
			health["message"] = "High number of dead letter events"
			status = http.StatusServiceUnavailable
		}

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		handlers.Routes(r)
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

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

	logger.Info("server starting", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
