package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	appconfig "dataproxy/internal/config"
	"dataproxy/internal/metrics"
	"dataproxy/internal/server"
	"dataproxy/internal/telemetry"
	"dataproxy/pkg/utils"
)

func main() {
	configPath := pflag.String("config", "configs/config.yaml", "path to the YAML config file (optional)")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := appconfig.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return err
	}

	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Upstream.URL == "" {
		utils.Logger.Warn("upstream url is not configured (set API_URL); every request will fail with 500")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.SetupOTelSDK(ctx, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			utils.Logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	rec := metrics.NewRecorder()
	srv := server.New(cfg, rec)
	metricsSrv := server.NewMetricsServer(cfg.Metrics.Addr, rec)

	srvErr := make(chan error, 2)
	go func() {
		utils.Logger.Info(fmt.Sprintf("Server running on port %s", cfg.Server.Port))
		srvErr <- srv.ListenAndServe()
	}()
	if metricsSrv != nil {
		go func() {
			utils.Logger.Info("metrics listening", "addr", metricsSrv.Addr)
			srvErr <- metricsSrv.ListenAndServe()
		}()
	}

	select {
	case err = <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		stop()
	}

	ctxTO, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	utils.Logger.Info("shutting down")
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctxTO); err != nil {
			utils.Logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
	return srv.Shutdown(ctxTO)
}
