package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout      = 10 * time.Second
	bootstrapTimeout   = 30 * time.Second
	cacheMaxAge        = "private, max-age=60"
	limiterSweepPeriod = time.Minute
)

// dashboardPage renders the page shell with the filter options of the loaded
// collection.
func dashboardPage(analytics *services.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(analytics.Options()).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newHandler(analytics *services.Analytics, cfg *config.Config, logger *slog.Logger, limiter *middleware.RateLimiter) http.Handler {
	srv := server.NewServer(analytics, logger, &server.TemplateHandlers{
		Dashboard: dashboardPage(analytics),
	})

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(limiter, logger),
	)
	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"csv_file", cfg.Dataset.CSVFile,
		"addr", cfg.Address(),
	)

	analytics := services.NewAnalytics(logger)
	store := dataset.NewStore(cfg.Dataset.CSVFile, cfg.Dataset.CacheDir, logger)

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	start := time.Now()
	err = analytics.Bootstrap(ctx, store, dataset.GenerateOptions{
		Count: cfg.Dataset.GenerateCount,
		Seed:  cfg.Dataset.Seed,
		Now:   time.Now(),
	})
	cancel()
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset ready", "duration", time.Since(start))

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.Security)
	go limiter.Janitor(appCtx, limiterSweepPeriod)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(analytics, cfg, logger, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gracefulServer.RegisterShutdownHook("rate-limiter", func(ctx context.Context) error {
		stop()
		return nil
	})
	gracefulServer.RegisterShutdownHook("analytics", func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(appCtx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
