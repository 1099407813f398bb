package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/repository"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/metrics"
)

var errEmptyDistribution = errors.New("classifier returned no class scores")

// PredictInput represents a prediction request
type PredictInput struct {
	Dataset           string   `json:"dataset" binding:"required"`
	Text              string   `json:"text"`
	Texts             []string `json:"texts"`
	ValidateInDataset bool     `json:"validate_in_dataset"`
}

// PredictionResultOutput is the classification of one input text.
// Error is set, and Prediction left empty, when the text could not be classified.
type PredictionResultOutput struct {
	Text       string             `json:"text"`
	TextLength int                `json:"text_length"`
	Prediction string             `json:"prediction"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	Error      string             `json:"error,omitempty"`
}

// PredictOutput represents the prediction response
type PredictOutput struct {
	DatasetUsed string                    `json:"dataset_used"`
	Model       string                    `json:"model"`
	Results     []*PredictionResultOutput `json:"results"`
}

// PredictionUsecase defines the interface for prediction business logic
type PredictionUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)
}

type predictionUsecase struct {
	datasetRepo repository.DatasetRepository
	slot        *ClassifierSlot
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewPredictionUsecase creates a new prediction usecase
func NewPredictionUsecase(datasetRepo repository.DatasetRepository, slot *ClassifierSlot, m *metrics.Metrics, logger *zap.Logger) PredictionUsecase {
	return &predictionUsecase{
		datasetRepo: datasetRepo,
		slot:        slot,
		metrics:     m,
		logger:      logger,
	}
}

// NormalizeInput resolves the request to the texts that will be classified.
// A non-empty text takes precedence over texts; texts are kept verbatim.
func NormalizeInput(input *PredictInput) (entity.TextInput, error) {
	switch {
	case input.Text != "":
		return entity.SingleText(input.Text), nil
	case len(input.Texts) > 0:
		return entity.BatchText(input.Texts), nil
	default:
		return nil, ErrMissingInput
	}
}

func (u *predictionUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	if input == nil {
		return nil, ErrInvalidRequest
	}

	classifier, ok := u.slot.Get()
	if !ok {
		return nil, ErrModelNotReady
	}

	in, err := NormalizeInput(input)
	if err != nil {
		return nil, err
	}
	texts := in.Texts()

	if err := u.validate(ctx, texts, input.Dataset, input.ValidateInDataset); err != nil {
		return nil, err
	}

	predictions, err := u.classify(ctx, classifier, texts)
	if err != nil {
		return nil, err
	}

	return toPredictOutput(input.Dataset, classifier.Model(), predictions), nil
}

// validate checks that every text is present in the named dataset when enabled
func (u *predictionUsecase) validate(ctx context.Context, texts []string, dataset string, enabled bool) error {
	if !enabled {
		return nil
	}

	corpus, err := u.datasetRepo.Get(ctx, dataset)
	if err != nil {
		return fmt.Errorf("failed to get dataset: %w", err)
	}
	if corpus == nil {
		return &DatasetNotFoundError{Name: dataset}
	}

	var missing []string
	for _, text := range texts {
		if !corpus.Contains(text) {
			missing = append(missing, text)
		}
	}
	if len(missing) > 0 {
		return newValidationFailedError(missing)
	}
	return nil
}

// classify scores every text, preferring one batch call when the classifier supports it.
// A failed batch falls back to per-item calls; items that still fail are kept as failed predictions.
func (u *predictionUsecase) classify(ctx context.Context, classifier service.Classifier, texts []string) ([]*entity.Prediction, error) {
	if batch, ok := classifier.(service.BatchClassifier); ok {
		scores, err := batch.ClassifyBatch(ctx, texts)
		if err == nil && len(scores) != len(texts) {
			err = fmt.Errorf("classifier returned %d results for %d texts", len(scores), len(texts))
		}
		if err == nil {
			predictions := make([]*entity.Prediction, len(texts))
			fallback := false
			for i, text := range texts {
				if len(scores[i]) == 0 {
					fallback = true
					break
				}
				predictions[i] = entity.NewPrediction(text, scores[i])
			}
			if !fallback {
				u.recordPredictions(predictions)
				return predictions, nil
			}
			err = errEmptyDistribution
		}

		u.logger.Warn("Batch classification failed, falling back to per-item calls",
			zap.Int("texts", len(texts)),
			zap.Error(err),
		)
		u.metrics.ClassifierFallback()
	}

	predictions := make([]*entity.Prediction, len(texts))
	var lastErr error
	failed := 0
	for i, text := range texts {
		scores, err := classifier.Classify(ctx, text)
		if err == nil && len(scores) == 0 {
			err = errEmptyDistribution
		}
		if err != nil {
			u.logger.Warn("Classification failed",
				zap.Int("index", i),
				zap.Error(err),
			)
			u.metrics.ClassifierItemFailure()
			predictions[i] = entity.NewFailedPrediction(text, err)
			lastErr = err
			failed++
			continue
		}
		predictions[i] = entity.NewPrediction(text, scores)
	}

	if failed == len(texts) {
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, lastErr)
	}

	u.recordPredictions(predictions)
	return predictions, nil
}

func (u *predictionUsecase) recordPredictions(predictions []*entity.Prediction) {
	for _, p := range predictions {
		if !p.Failed() {
			u.metrics.Prediction(p.Label)
		}
	}
}

func toPredictOutput(dataset, model string, predictions []*entity.Prediction) *PredictOutput {
	results := make([]*PredictionResultOutput, len(predictions))
	for i, p := range predictions {
		results[i] = toPredictionResultOutput(p)
	}
	return &PredictOutput{
		DatasetUsed: dataset,
		Model:       model,
		Results:     results,
	}
}

func toPredictionResultOutput(p *entity.Prediction) *PredictionResultOutput {
	out := &PredictionResultOutput{
		Text:       p.Text,
		TextLength: p.TextLength,
		Prediction: p.Label,
		Confidence: p.Confidence,
		Scores:     map[string]float64(p.Scores),
	}
	if p.Err != nil {
		out.Error = p.Err.Error()
	}
	return out
}
