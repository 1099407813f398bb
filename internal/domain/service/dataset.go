package service

import (
	"context"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
)

// DatasetSource identifies a public dataset on the hub
type DatasetSource struct {
	Name   string
	Path   string
	Config string
}

// DatasetFetcher downloads a bounded sample of a public dataset
type DatasetFetcher interface {
	FetchSample(ctx context.Context, source DatasetSource, limit int) ([]entity.Row, error)
}

// CorpusParser turns an uploaded file into rows
type CorpusParser interface {
	Parse(filename string, content []byte) ([]entity.Row, error)
}
