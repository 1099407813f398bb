package repository

import (
	"context"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
)

// DatasetRepository defines the interface for named corpus storage
type DatasetRepository interface {
	// Get retrieves a corpus by name, returning nil when it does not exist
	Get(ctx context.Context, name string) (*entity.Corpus, error)

	// Save stores a corpus, replacing any corpus with the same name
	Save(ctx context.Context, corpus *entity.Corpus) error

	// SaveIfAbsent stores a corpus only when its name is free, reporting whether it did
	SaveIfAbsent(ctx context.Context, corpus *entity.Corpus) (bool, error)

	// List returns all corpora in the order they were first saved
	List(ctx context.Context) ([]*entity.Corpus, error)
}
