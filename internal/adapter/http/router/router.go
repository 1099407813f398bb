package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/adapter/http/handler"
	"github.com/ressKim-io/sentiment-lab/internal/adapter/http/middleware"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/metrics"
)

// Handlers groups the HTTP handlers mounted by Setup
type Handlers struct {
	Health     *handler.HealthHandler
	Dataset    *handler.DatasetHandler
	Prediction *handler.PredictionHandler
}

// Setup creates and configures the Gin router
func Setup(h Handlers, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(m))

	// Health endpoints
	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Dashboard API
	router.GET("/datasets", h.Dataset.ListDatasets)
	router.POST("/upload_dataset", h.Dataset.UploadDataset)
	router.POST("/predict", h.Prediction.Predict)

	return router
}
