package client

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

// InferenceClassifier adapts InferenceClient to the BatchClassifier interface
type InferenceClassifier struct {
	client *InferenceClient
}

// NewInferenceClassifier creates a new InferenceClassifier
func NewInferenceClassifier(client *InferenceClient) *InferenceClassifier {
	return &InferenceClassifier{client: client}
}

var _ service.BatchClassifier = (*InferenceClassifier)(nil)

// Classify returns the class distribution of a single text
func (c *InferenceClassifier) Classify(ctx context.Context, text string) ([]entity.LabelScore, error) {
	results, err := c.client.Infer(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// ClassifyBatch returns the class distributions of texts in one request
func (c *InferenceClassifier) ClassifyBatch(ctx context.Context, texts []string) ([][]entity.LabelScore, error) {
	return c.client.Infer(ctx, texts)
}

// Model returns the model identifier
func (c *InferenceClassifier) Model() string {
	return c.client.Model()
}

// InferenceLoader warms up the hosted model before handing out a classifier
type InferenceLoader struct {
	classifier service.Classifier
	probeText  string
	logger     *zap.Logger
}

// NewInferenceLoader creates a loader that probes classifier with probeText
func NewInferenceLoader(classifier service.Classifier, probeText string, logger *zap.Logger) *InferenceLoader {
	return &InferenceLoader{
		classifier: classifier,
		probeText:  probeText,
		logger:     logger,
	}
}

// Load classifies the probe text once. The backend loads the model on first use,
// so a successful probe means later requests will not wait for it.
func (l *InferenceLoader) Load(ctx context.Context) (service.Classifier, error) {
	scores, err := l.classifier.Classify(ctx, l.probeText)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", l.classifier.Model(), err)
	}
	if len(scores) == 0 {
		return nil, errors.New("model " + l.classifier.Model() + " returned no labels")
	}

	labels := make([]string, len(scores))
	for i, s := range scores {
		labels[i] = s.Label
	}
	l.logger.Info("classifier loaded",
		zap.String("model", l.classifier.Model()),
		zap.Strings("labels", labels),
	)

	return l.classifier, nil
}
