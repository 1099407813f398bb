package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/metrics"
	"github.com/ressKim-io/sentiment-lab/internal/usecase"
)

// PredictionHandler handles prediction requests
type PredictionHandler struct {
	predictionUC usecase.PredictionUsecase
	metrics      *metrics.Metrics
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionUC usecase.PredictionUsecase, m *metrics.Metrics) *PredictionHandler {
	return &PredictionHandler{
		predictionUC: predictionUC,
		metrics:      m,
	}
}

// Predict handles POST /predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var input usecase.PredictInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.metrics.PredictionFailure(CodeInvalidRequest)
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.predictionUC.Predict(c.Request.Context(), &input)
	if err != nil {
		errResp := HandleUsecaseError(c, err)
		h.metrics.PredictionFailure(errResp.Code)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
