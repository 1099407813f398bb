package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

// MockDatasetRepository is a mock implementation of DatasetRepository
type MockDatasetRepository struct {
	mock.Mock
}

func (m *MockDatasetRepository) Get(ctx context.Context, name string) (*entity.Corpus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Corpus), args.Error(1)
}

func (m *MockDatasetRepository) Save(ctx context.Context, corpus *entity.Corpus) error {
	args := m.Called(ctx, corpus)
	return args.Error(0)
}

func (m *MockDatasetRepository) SaveIfAbsent(ctx context.Context, corpus *entity.Corpus) (bool, error) {
	args := m.Called(ctx, corpus)
	return args.Bool(0), args.Error(1)
}

func (m *MockDatasetRepository) List(ctx context.Context) ([]*entity.Corpus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Corpus), args.Error(1)
}

// MockClassifier is a mock classifier without batch support
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) ([]entity.LabelScore, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LabelScore), args.Error(1)
}

func (m *MockClassifier) Model() string {
	return "mock-sentiment-v1"
}

// MockBatchClassifier adds batch support to MockClassifier
type MockBatchClassifier struct {
	MockClassifier
}

func (m *MockBatchClassifier) ClassifyBatch(ctx context.Context, texts []string) ([][]entity.LabelScore, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]entity.LabelScore), args.Error(1)
}

// MockDatasetFetcher is a mock implementation of DatasetFetcher
type MockDatasetFetcher struct {
	mock.Mock
}

func (m *MockDatasetFetcher) FetchSample(ctx context.Context, source service.DatasetSource, limit int) ([]entity.Row, error) {
	args := m.Called(ctx, source, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Row), args.Error(1)
}

// MockCorpusParser is a mock implementation of CorpusParser
type MockCorpusParser struct {
	mock.Mock
}

func (m *MockCorpusParser) Parse(filename string, content []byte) ([]entity.Row, error) {
	args := m.Called(filename, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Row), args.Error(1)
}

// MockClassifierLoader is a mock implementation of ClassifierLoader
type MockClassifierLoader struct {
	mock.Mock
}

func (m *MockClassifierLoader) Load(ctx context.Context) (service.Classifier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.Classifier), args.Error(1)
}

// MockDatasetUsecase is a mock implementation of DatasetUsecase
type MockDatasetUsecase struct {
	mock.Mock
}

func (m *MockDatasetUsecase) List(ctx context.Context) (*DatasetListOutput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DatasetListOutput), args.Error(1)
}

func (m *MockDatasetUsecase) Upload(ctx context.Context, input *UploadDatasetInput) (*UploadDatasetOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UploadDatasetOutput), args.Error(1)
}

func (m *MockDatasetUsecase) LoadBuiltins(ctx context.Context) {
	m.Called(ctx)
}

func sentimentScores(pos float64) []entity.LabelScore {
	return []entity.LabelScore{
		{Label: "NEGATIVE", Score: 1 - pos},
		{Label: "POSITIVE", Score: pos},
	}
}
