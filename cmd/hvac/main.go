package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/hvac-sizing-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hvac-sizing-service/internal/adapter/kafka"
	"github.com/couchcryptid/hvac-sizing-service/internal/config"
	"github.com/couchcryptid/hvac-sizing-service/internal/observability"
	"github.com/couchcryptid/hvac-sizing-service/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	// Dataset events are feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher weather.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		metrics.DatasetPublishEnabled.Set(1)
		logger.Info("dataset events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaDatasetTopic)
	} else {
		logger.Info("dataset events disabled")
	}

	store := weather.NewStore(cfg.WeatherCacheSize, publisher, logger, metrics)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		UploadMaxBytes: cfg.UploadMaxBytes,
	}, store, store, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
