package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/repository"
)

var errNilCorpus = errors.New("corpus must not be nil")

type datasetRepository struct {
	mu      sync.RWMutex
	corpora map[string]*entity.Corpus
	order   []string
}

// NewDatasetRepository creates an in-memory dataset repository.
// Saving replaces the whole corpus under its name in one step, so readers see either
// the previous corpus or the new one.
func NewDatasetRepository() repository.DatasetRepository {
	return &datasetRepository{
		corpora: make(map[string]*entity.Corpus),
	}
}

func (r *datasetRepository) Get(_ context.Context, name string) (*entity.Corpus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.corpora[name], nil
}

func (r *datasetRepository) Save(_ context.Context, corpus *entity.Corpus) error {
	if corpus == nil {
		return errNilCorpus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.corpora[corpus.Name()]; !exists {
		r.order = append(r.order, corpus.Name())
	}
	r.corpora[corpus.Name()] = corpus
	return nil
}

func (r *datasetRepository) SaveIfAbsent(_ context.Context, corpus *entity.Corpus) (bool, error) {
	if corpus == nil {
		return false, errNilCorpus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.corpora[corpus.Name()]; exists {
		return false, nil
	}
	r.order = append(r.order, corpus.Name())
	r.corpora[corpus.Name()] = corpus
	return true, nil
}

func (r *datasetRepository) List(_ context.Context) ([]*entity.Corpus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	corpora := make([]*entity.Corpus, 0, len(r.order))
	for _, name := range r.order {
		corpora = append(corpora, r.corpora[name])
	}
	return corpora, nil
}
