package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/merchantpulse/dashboard-api/api/routes"
	"github.com/merchantpulse/dashboard-api/internal/insights"
	"github.com/merchantpulse/dashboard-api/internal/upstream"
	"github.com/merchantpulse/dashboard-api/pkg/config"
	"github.com/merchantpulse/dashboard-api/pkg/logger"
	"github.com/merchantpulse/dashboard-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "dashboard-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "dashboard-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	promRegistry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(promRegistry)

	upstreamClient, err := upstream.NewClient(cfg.Upstream, pipelineMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	insightsService, err := insights.NewService(upstreamClient, cfg.Upstream.ProviderID, cfg.Pipeline, pipelineMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting dashboard api")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(logg, insightsService, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "dashboard api stopped unexpectedly", err)
		os.Exit(1)
	}
}
