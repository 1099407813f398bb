package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	scorecache "github.com/ressKim-io/sentiment-lab/internal/adapter/cache"
	"github.com/ressKim-io/sentiment-lab/internal/adapter/client"
	"github.com/ressKim-io/sentiment-lab/internal/adapter/fileparser"
	"github.com/ressKim-io/sentiment-lab/internal/adapter/http/handler"
	"github.com/ressKim-io/sentiment-lab/internal/adapter/http/router"
	"github.com/ressKim-io/sentiment-lab/internal/adapter/repository/memory"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/cache"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/config"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/logger"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/metrics"
	"github.com/ressKim-io/sentiment-lab/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize Redis (optional, continue without it)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			log.Info("Connected to Redis")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Classifier backend
	inference := client.NewInferenceClient(client.InferenceClientConfig{
		BaseURL:  cfg.Classifier.BaseURL,
		Model:    cfg.Classifier.Model,
		APIToken: cfg.Classifier.APIToken,
		Timeout:  cfg.Classifier.Timeout,
		RetryMax: cfg.Classifier.RetryMax,
	}, log)
	var classifier service.Classifier = client.NewInferenceClassifier(inference)
	if redisClient != nil {
		classifier = scorecache.NewCachedClassifier(classifier, redisClient, cfg.Cache.TTL, log)
	}
	loader := client.NewInferenceLoader(classifier, cfg.Classifier.ProbeText, log)

	datasetClient := client.NewDatasetClient(client.DatasetClientConfig{
		BaseURL:  cfg.Datasets.BaseURL,
		Split:    cfg.Datasets.Split,
		Timeout:  cfg.Datasets.Timeout,
		RetryMax: cfg.Datasets.RetryMax,
	}, log)

	// Initialize repositories and usecases
	datasetRepo := memory.NewDatasetRepository()
	slot := usecase.NewClassifierSlot()

	datasetUC := usecase.NewDatasetUsecase(datasetRepo, datasetClient, fileparser.NewParser(), usecase.DatasetOptions{
		Sources:    usecase.BuiltinDatasets,
		SampleRows: cfg.Datasets.SampleRows,
	}, m, log)
	predictionUC := usecase.NewPredictionUsecase(datasetRepo, slot, m, log)
	bootstrapper := usecase.NewBootstrapper(datasetUC, loader, slot, log)

	// Setup router
	r := router.Setup(router.Handlers{
		Health:     handler.NewHealthHandler(redisClient, bootstrapper),
		Dataset:    handler.NewDatasetHandler(datasetUC, cfg.Upload.MaxBytes, cfg.Upload.DefaultName),
		Prediction: handler.NewPredictionHandler(predictionUC, m),
	}, m, prometheus.DefaultGatherer, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Load datasets and the model in the background; /predict answers 503 until done
	bootCtx, cancelBoot := context.WithCancel(context.Background())
	defer cancelBoot()
	go func() {
		log.Info("Loading datasets and model", zap.String("model", cfg.Classifier.Model))
		if err := bootstrapper.Run(bootCtx); err != nil {
			log.Error("Startup load failed, predictions stay unavailable", zap.Error(err))
		}
	}()

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancelBoot()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}
