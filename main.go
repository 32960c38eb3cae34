package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "github.com/FACorreiaa/go-travel-recommender/app/db"
	appLogger "github.com/FACorreiaa/go-travel-recommender/app/logger"
	"github.com/FACorreiaa/go-travel-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommender/app/tracer"
	"github.com/FACorreiaa/go-travel-recommender/config"
	"github.com/FACorreiaa/go-travel-recommender/internal/api/catalog"
	generativeAI "github.com/FACorreiaa/go-travel-recommender/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-recommender/internal/api/geocode"
	"github.com/FACorreiaa/go-travel-recommender/internal/api/recommendation"
	router "github.com/FACorreiaa/go-travel-recommender/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler, err := tracer.InitTracingAndMetrics("TravelRecommender")
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Capabilities ---
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.AI.Model)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		os.Exit(1)
	}

	var geocoder recommendation.Geocoder
	if kakaoKey := os.Getenv("KAKAO_API_KEY"); kakaoKey != "" {
		geocoder = geocode.NewClient(cfg.Geocode.BaseURL, kakaoKey, cfg.Geocode.Timeout, logger)
	} else {
		logger.Warn("KAKAO_API_KEY not set, geocode fallback disabled")
	}

	// --- Catalog ---
	catalogRepo := catalog.NewPostgresRepository(pool, logger)
	catalogService := catalog.NewService(catalogRepo, cfg.Catalog.CacheTTL, logger)
	if err := catalogService.RefreshCatalog(ctx); err != nil {
		logger.Error("Failed to load the catalog at startup", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := catalogService.StartRefreshScheduler(ctx, cfg.Catalog.RefreshSchedule); err != nil {
		logger.Error("Failed to start catalog refresh scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Pipeline ---
	recommendationService := recommendation.NewService(aiClient, geocoder, recommendation.Policy{
		GenerationTimeout:   cfg.AI.GenerationTimeout,
		VerificationTimeout: cfg.Pipeline.VerificationTimeout,
		ReliabilityFloor:    cfg.Pipeline.ReliabilityFloor,
	}, logger)
	recommendationRepo := recommendation.NewPostgresRepository(pool, logger)
	recommendationHandler := recommendation.NewHandler(recommendationService, catalogService, recommendationRepo, logger)

	// --- Router ---
	mainRouter := router.SetupRouter(&router.Config{
		RecommendationHandler: recommendationHandler,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.MetricsPort),
		Handler: metricsHandler,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	var logger *slog.Logger
	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
