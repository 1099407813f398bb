package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/repository"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
	"github.com/ressKim-io/sentiment-lab/internal/infrastructure/metrics"
)

// BuiltinDatasets are the public datasets sampled at startup
var BuiltinDatasets = []service.DatasetSource{
	{Name: "IMDB Reviews", Path: "stanfordnlp/imdb", Config: "plain_text"},
	{Name: "Yelp Reviews", Path: "fancyzhx/yelp_polarity", Config: "plain_text"},
	{Name: "Twitter US Airline Sentiment", Path: "cardiffnlp/tweet_eval", Config: "sentiment"},
	{Name: "Sentiment140 (sample)", Path: "stanfordnlp/sentiment140", Config: "sentiment140"},
	{Name: "Amazon Reviews (sample)", Path: "fancyzhx/amazon_polarity", Config: "amazon_polarity"},
}

// DatasetSummary describes one stored dataset
type DatasetSummary struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// DatasetListOutput represents the dataset listing
type DatasetListOutput struct {
	Datasets []DatasetSummary `json:"datasets"`
}

// UploadDatasetInput represents an uploaded dataset file
type UploadDatasetInput struct {
	Name     string
	Filename string
	Content  []byte
}

// UploadDatasetOutput represents the result of an upload
type UploadDatasetOutput struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
}

// DatasetOptions configures the built-in dataset load
type DatasetOptions struct {
	Sources    []service.DatasetSource
	SampleRows int
}

// DatasetUsecase defines the interface for dataset business logic
type DatasetUsecase interface {
	List(ctx context.Context) (*DatasetListOutput, error)
	Upload(ctx context.Context, input *UploadDatasetInput) (*UploadDatasetOutput, error)
	LoadBuiltins(ctx context.Context)
}

type datasetUsecase struct {
	datasetRepo repository.DatasetRepository
	fetcher     service.DatasetFetcher
	parser      service.CorpusParser
	opts        DatasetOptions
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewDatasetUsecase creates a new dataset usecase
func NewDatasetUsecase(
	datasetRepo repository.DatasetRepository,
	fetcher service.DatasetFetcher,
	parser service.CorpusParser,
	opts DatasetOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) DatasetUsecase {
	return &datasetUsecase{
		datasetRepo: datasetRepo,
		fetcher:     fetcher,
		parser:      parser,
		opts:        opts,
		metrics:     m,
		logger:      logger,
	}
}

func (u *datasetUsecase) List(ctx context.Context) (*DatasetListOutput, error) {
	corpora, err := u.datasetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]DatasetSummary, len(corpora))
	for i, c := range corpora {
		summaries[i] = DatasetSummary{Name: c.Name(), Rows: c.Len()}
	}
	return &DatasetListOutput{Datasets: summaries}, nil
}

func (u *datasetUsecase) Upload(ctx context.Context, input *UploadDatasetInput) (*UploadDatasetOutput, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidRequest
	}

	rows, err := u.parser.Parse(input.Filename, input.Content)
	if err != nil {
		return nil, &UploadParseError{Err: err}
	}

	corpus := entity.NewCorpus(input.Name, rows)
	if err := u.datasetRepo.Save(ctx, corpus); err != nil {
		return nil, err
	}
	u.metrics.DatasetRows(corpus.Name(), corpus.Len())

	u.logger.Info("Dataset uploaded",
		zap.String("dataset", corpus.Name()),
		zap.String("filename", input.Filename),
		zap.Int("rows", corpus.Len()),
	)

	return &UploadDatasetOutput{
		Message: fmt.Sprintf("Uploaded dataset '%s' with %d rows.", corpus.Name(), corpus.Len()),
		Name:    corpus.Name(),
		Rows:    corpus.Len(),
	}, nil
}

// LoadBuiltins samples every configured source concurrently. A source that fails is
// stored as an empty corpus under its name; a dataset already uploaded under the same
// name is left untouched.
func (u *datasetUsecase) LoadBuiltins(ctx context.Context) {
	corpora := make([]*entity.Corpus, len(u.opts.Sources))

	var g errgroup.Group
	for i, source := range u.opts.Sources {
		g.Go(func() error {
			corpora[i] = u.loadBuiltin(ctx, source)
			return nil
		})
	}
	_ = g.Wait()

	for _, corpus := range corpora {
		saved, err := u.datasetRepo.SaveIfAbsent(ctx, corpus)
		if err != nil {
			u.logger.Error("Failed to store dataset", zap.String("dataset", corpus.Name()), zap.Error(err))
			continue
		}
		if !saved {
			u.logger.Info("Keeping uploaded dataset over built-in", zap.String("dataset", corpus.Name()))
			continue
		}
		u.metrics.DatasetRows(corpus.Name(), corpus.Len())
	}
}

func (u *datasetUsecase) loadBuiltin(ctx context.Context, source service.DatasetSource) *entity.Corpus {
	rows, err := u.fetcher.FetchSample(ctx, source, u.opts.SampleRows)
	if err != nil {
		u.logger.Warn("Could not load dataset",
			zap.String("dataset", source.Name),
			zap.String("path", source.Path),
			zap.Error(err),
		)
		return entity.NewCorpus(source.Name, nil)
	}

	u.logger.Info("Loaded dataset",
		zap.String("dataset", source.Name),
		zap.Int("rows", len(rows)),
	)
	return entity.NewCorpus(source.Name, rows)
}
