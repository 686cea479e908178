package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moementrabelsi/mma/internal/handler"
	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/internal/service"
	"github.com/moementrabelsi/mma/internal/store"
	"github.com/moementrabelsi/mma/pkg/config"
	"github.com/moementrabelsi/mma/pkg/jwtutil"
	"github.com/moementrabelsi/mma/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: "catalog-service",
		File:        appConfig.Log.File,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting catalog-service", appConfig.LogFields()...)

	// Initialize JWT utility
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey: appConfig.JWT.SigningKey,
		Expiration: appConfig.JWT.Expiration,
	})
	log.Info("JWT utility initialized", zap.Duration("expiration", appConfig.JWT.Expiration))

	// Initialize Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(appConfig.Metrics.Prefix, registry)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize data source
	st, err := store.Open(appConfig, log, appMetrics)
	if err != nil {
		log.Fatal("Failed to initialize data source", zap.Error(err))
	}
	defer st.Close()
	log.Info("Data source ready", zap.String("data_source", st.Name()))

	svc := service.New(st, jwt, service.OptionsFromConfig(appConfig), appMetrics, log)

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Auth.Bootstrap(bootCtx); err != nil {
		log.Error("Failed to provision default admin", zap.Error(err))
	}
	cancel()

	e := handler.NewRouter(handler.RouterConfig{
		APIPrefix:  appConfig.Server.APIPrefix,
		CORSOrigin: appConfig.Server.CORSOrigin,
		Store:      st,
		JWT:        jwt,
		Metrics:    appMetrics,
		Gatherer:   registry,
	}, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	port := appConfig.Server.Port
	go func() {
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
