package service

import (
	"context"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
)

// Classifier defines the interface for text classification.
// Implementations must return a score for every class they support.
type Classifier interface {
	// Classify returns the full class distribution for a single text
	Classify(ctx context.Context, text string) ([]entity.LabelScore, error)

	// Model returns the identifier of the loaded model
	Model() string
}

// BatchClassifier is implemented by classifiers that can score many texts in one call
type BatchClassifier interface {
	Classifier

	// ClassifyBatch returns one distribution per text, in input order
	ClassifyBatch(ctx context.Context, texts []string) ([][]entity.LabelScore, error)
}

// ClassifierLoader prepares a classifier for use
type ClassifierLoader interface {
	Load(ctx context.Context) (Classifier, error)
}
