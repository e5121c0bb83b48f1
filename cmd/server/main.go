package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/alphalever/backend/internal/api"
	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/infrastructure/config"
	"github.com/alphalever/backend/internal/service"
	"github.com/alphalever/backend/internal/store"

	_ "github.com/alphalever/backend/docs" // generated swagger docs
)

// @title           Alpha Lever API
// @version         1.0
// @description     Score self-reported fitness and lifestyle answers on a 0-1000 scale, rank users and export results.

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(config.New())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	factors, err := scoring.LoadConfig(cfg.FactorsFile)
	if err != nil {
		logger.Error("invalid factor configuration", "error", err)
		os.Exit(1)
	}

	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	scoreboard := service.NewScoreboard(db, factors, service.Options{
		AdminCode: cfg.AdminCode,
		Workers:   cfg.Workers,
	}, logger)
	handler := api.NewHandler(scoreboard, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	if cfg.AdminCode == "" {
		logger.Warn("no admin code configured, admin registration and assessments are disabled")
	}
	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"database", cfg.DatabasePath,
		"factors", len(factors.Factors),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
