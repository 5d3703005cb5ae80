package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"messenger/internal/authapi"
	"messenger/internal/cli"
	"messenger/internal/config"
	"messenger/internal/credentials"
	"messenger/internal/httpx"
	"messenger/internal/observability/logging"
	"messenger/internal/observability/metrics"
	"messenger/internal/session"
	"messenger/internal/userlist"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		ServiceName: "messenger",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})

	metrics.MustRegister()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	creds := credentials.NewKeyring()
	users := userlist.New(filepath.Join(cfg.DataDir, "users.csv"))
	auth := authapi.NewAuthenticator(authapi.NewClient(cfg.ServerURL), creds, users, cfg.DataDir, logger)
	boot := session.NewBootstrapper(cfg.WebsocketURL, creds, logger)

	app := cli.New(auth, users, boot, creds, cfg.QueueSize, logger)
	if err := app.Run(context.Background()); err != nil {
		logger.Error("exiting", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serveMetrics(addr string, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Use(httpx.LogRequests(logger))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("metrics listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("metrics listener stopped", slog.String("error", err.Error()))
	}
}
